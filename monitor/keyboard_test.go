package monitor

import (
	"errors"
	"strings"
	"testing"
)

func TestMatrixCodes(t *testing.T) {
	aCol, aMod := MatrixCodes('A')
	if aCol == NoKey {
		t.Fatal("'A' encoded to the no-key sentinel")
	}
	retCol, retMod := MatrixCodes('\r')
	if retCol == NoKey {
		t.Fatal("return encoded to the no-key sentinel")
	}
	if aCol == retCol && aMod == retMod {
		t.Fatal("'A' and return encoded to the same matrix pair")
	}

	// case folds onto the same physical key
	upper, _ := MatrixCodes('Q')
	lower, _ := MatrixCodes('q')
	if upper != lower {
		t.Fatalf("'Q' = %#02x, 'q' = %#02x", upper, lower)
	}

	// shifted characters carry the shift modifier
	col, mod := MatrixCodes('!')
	oneCol, _ := MatrixCodes('1')
	if col != oneCol {
		t.Fatalf("'!' column %#02x, want the '1' key %#02x", col, oneCol)
	}
	if mod != 0x0f {
		t.Fatalf("'!' modifier %#02x, want shift", mod)
	}

	// unmapped characters fall back to the sentinel, silently
	col, mod = MatrixCodes('🙂')
	if col != NoKey || mod != NoKey {
		t.Fatalf("'🙂' = %#02x %#02x, want the no-key pair", col, mod)
	}
}

func TestTypeText(t *testing.T) {
	f := &fakeTransport{}
	s := NewSessionTiming(f, Timing{})

	if err := s.TypeText("a"); err != nil {
		t.Fatal(err)
	}
	if f.cmds[0] != "sffd3615 0a 7f\n" {
		t.Fatalf("keystroke %q", f.cmds[0])
	}
	// one keystroke plus the threefold release
	if len(f.cmds) != 4 {
		t.Fatalf("wrote %d commands, want 4", len(f.cmds))
	}
	for _, cmd := range f.cmds[1:] {
		if cmd != "sffd3615 7f 7f\n" {
			t.Fatalf("release %q", cmd)
		}
	}
}

func TestTypeTextEscapes(t *testing.T) {
	f := &fakeTransport{}
	s := NewSessionTiming(f, Timing{})

	if err := s.TypeText(`run\r`); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(f.cmds, "")
	if !strings.Contains(joined, "sffd3615 01 7f\n") {
		t.Fatalf("escaped return not typed: %q", joined)
	}
}

func TestTypeTextReleasesOnError(t *testing.T) {
	// the 'b' keystroke fails; the 'a' before it must still be released
	f := &fakeTransport{failOn: "1c 7f", failErr: errors.New("port gone")}
	s := NewSessionTiming(f, Timing{})

	err := s.TypeText("ab")
	if err == nil {
		t.Fatal("expected error from failed keystroke")
	}
	if len(f.cmds) != 4 {
		t.Fatalf("wrote %q, want one keystroke plus the threefold release", f.cmds)
	}
	for _, cmd := range f.cmds[1:] {
		if cmd != "sffd3615 7f 7f\n" {
			t.Fatalf("release %q", cmd)
		}
	}
}

func TestTypeTextUnmapped(t *testing.T) {
	f := &fakeTransport{}
	s := NewSessionTiming(f, Timing{})

	if err := s.TypeText("🙂"); err != nil {
		t.Fatal(err)
	}
	if f.cmds[0] != "sffd3615 7f 7f\n" {
		t.Fatalf("keystroke %q, want the no-key pair", f.cmds[0])
	}
}
