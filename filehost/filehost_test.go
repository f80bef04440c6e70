package filehost

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleList = `[
	{"fileid":"9","title":"Zapper","type":"Game","filename":"zapper.prg","location":"files/zapper.prg","author":"a"},
	{"fileid":"2","title":"Artpack","type":"Media","filename":"artpack.zip","location":"files/artpack.zip","author":"b"},
	{"fileid":"5","title":"Bouncer","type":"Game","filename":"bouncer.d81","location":"files/bouncer.d81","author":"c"}
]`

func TestGetFileList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleList))
	}))
	defer srv.Close()

	records, err := getFileList(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("%d records, want 3", len(records))
	}
	if records[0].Title != "Zapper" || records[0].Filename != "zapper.prg" {
		t.Fatalf("record %+v", records[0])
	}
}

func TestGetFileListHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := getFileList(srv.URL); err == nil {
		t.Fatal("expected error on http failure")
	}
}

func TestFilterProgramFiles(t *testing.T) {
	records := []Record{
		{Title: "Zapper", Filename: "zapper.prg"},
		{Title: "Artpack", Filename: "artpack.zip"},
		{Title: "Bouncer", Filename: "bouncer.D81"},
	}
	out := FilterProgramFiles(records)
	if len(out) != 2 {
		t.Fatalf("%d entries, want 2", len(out))
	}
	// sorted by title
	if out[0].Title != "Bouncer" || out[1].Title != "Zapper" {
		t.Fatalf("order %v, %v", out[0].Title, out[1].Title)
	}
}

func TestDownloadURL(t *testing.T) {
	r := Record{Location: "files/zapper.prg"}
	if got := r.DownloadURL(); got != "https://files.mega65.org/files/zapper.prg" {
		t.Fatalf("got %q", got)
	}
	r = Record{Location: "/files/zapper.prg"}
	if got := r.DownloadURL(); got != "https://files.mega65.org/files/zapper.prg" {
		t.Fatalf("got %q", got)
	}
}
