package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersions(t *testing.T) {
	fs := NewFileSet()
	first := fs.Add("hello.com", []byte("COMPONENT A; END A;"), 0)
	second := fs.Add("hello.com", []byte("COMPONENT B; END B;"), 0)
	if first == second {
		t.Fatalf("expected a new id for the second version")
	}
	latest, ok := fs.Lookup("hello.com")
	if !ok || latest != second {
		t.Fatalf("Lookup = %d, %v; want %d", latest, ok, second)
	}
	if got := string(fs.Get(first).Content); got != "COMPONENT A; END A;" {
		t.Errorf("first version content changed: %q", got)
	}
}

func TestPositionAndLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.com", []byte("ab\ncd\n\nef"))
	f := fs.Get(id)

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}},
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tc := range cases {
		if got := f.Position(tc.off); got != tc.want {
			t.Errorf("Position(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
	if got := f.Line(2); got != "cd" {
		t.Errorf("Line(2) = %q", got)
	}
	if got := f.Line(3); got != "" {
		t.Errorf("Line(3) = %q, want empty", got)
	}
	if got := f.Line(4); got != "ef" {
		t.Errorf("Line(4) = %q", got)
	}
	if got := f.Line(9); got != "" {
		t.Errorf("Line(9) = %q, want empty", got)
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.com")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("A\r\nB\r\n")...)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "A\nB\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
}

func TestNFCNormalization(t *testing.T) {
	fs := NewFileSet()
	// "e" followed by a combining acute accent
	id := fs.AddVirtual("nfc.com", []byte("e\u0301"))
	f := fs.Get(id)
	if string(f.Content) != "\u00e9" {
		t.Fatalf("content = %q, want precomposed form", f.Content)
	}
	if f.Flags&FileNormalizedNFC == 0 || f.Flags&FileVirtual == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("cross-file Cover changed span: %v", got)
	}
	if !a.Cover(b).Contains(a) {
		t.Errorf("cover must contain its operands")
	}
}
