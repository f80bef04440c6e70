// Package filehost fetches the public file catalog of the MEGA65
// FileHost website.
package filehost

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	listURL = "https://files.mega65.org/php/readfilespublic.php"
	baseURL = "https://files.mega65.org/"
)

// Record is one catalog entry as published by the FileHost API. All
// fields arrive as strings, sizes and dates included.
type Record struct {
	FileID    string `json:"fileid"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Kind      string `json:"type"`
	OS        string `json:"os"`
	Rating    string `json:"rating"`
	Downloads string `json:"downloads"`
	Published string `json:"published"`
	SortDate  string `json:"sortdate"`
	VersionID string `json:"versionid"`
	Filename  string `json:"filename"`
	Size      string `json:"size"`
	Location  string `json:"location"`
	Author    string `json:"author"`
}

// DownloadURL resolves the record's file location against the FileHost
// origin.
func (r *Record) DownloadURL() string {
	return baseURL + strings.TrimPrefix(r.Location, "/")
}

// Columns returns the fields shown in catalog listings.
func (r *Record) Columns() []string {
	return []string{r.Title, r.Kind, r.Author}
}

// GetFileList fetches the complete published catalog.
func GetFileList() ([]Record, error) {
	return getFileList(listURL)
}

func getFileList(url string) ([]Record, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("filehost: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("filehost: fetch file list: %s", resp.Status)
	}
	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("filehost: decode file list: %w", err)
	}
	return records, nil
}

// FilterProgramFiles keeps the entries that can be pushed to the
// machine (.prg files and .d81 disk images), sorted by title. Running
// a .d81 entry additionally needs a disk-image reader wired into the
// program loader; without one it reports a configuration error.
func FilterProgramFiles(records []Record) []Record {
	var out []Record
	for _, r := range records {
		name := strings.ToLower(r.Filename)
		if strings.HasSuffix(name, ".prg") || strings.HasSuffix(name, ".d81") {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}
