package source

import (
	"path/filepath"
	"sort"
)

type (
	// FileID identifies a file within a FileSet.
	FileID uint32
	// FileFlags records how the content was normalized on load.
	FileFlags uint8
)

const (
	// FileVirtual marks content that did not come from disk (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File is one loaded compilation unit.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineStarts holds the byte offset of the first byte of every line.
	LineStarts []uint32
	Hash       [32]byte
	Flags      FileFlags
}

// LineCol is a 1-based position, as shown to users.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Position converts a byte offset into a line/column pair.
func (f *File) Position(off uint32) LineCol {
	// last line start that is <= off
	i := sort.Search(len(f.LineStarts), func(i int) bool { return f.LineStarts[i] > off }) - 1
	if i < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	return LineCol{Line: uint32(i) + 1, Col: off - f.LineStarts[i] + 1}
}

// Line returns the text of a 1-based line without its terminator.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.LineStarts) {
		return ""
	}
	start := f.LineStarts[n-1]
	end := uint32(len(f.Content))
	if int(n) < len(f.LineStarts) {
		end = f.LineStarts[n] - 1
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// DisplayPath renders the path relative to base when possible.
func (f *File) DisplayPath(base string) string {
	if base == "" || f.Flags&FileVirtual != 0 {
		return f.Path
	}
	if rel, err := filepath.Rel(base, f.Path); err == nil {
		return filepath.ToSlash(rel)
	}
	return f.Path
}
