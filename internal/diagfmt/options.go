// Package diagfmt renders diagnostics and token streams for the CLI.
package diagfmt

import (
	"fmt"
	"path/filepath"

	"composita/internal/source"
)

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	// PathModeAuto prints paths relative to Base when Base is set.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func ParsePathMode(s string) (PathMode, error) {
	switch s {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (expected: auto|absolute|relative|basename)", s)
}

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color     bool
	Context   int // lines shown above the primary line
	PathMode  PathMode
	Base      string // directory for relative paths
	ShowNotes bool
}

// JSONOpts configures JSON.
type JSONOpts struct {
	IncludePositions bool // line/col next to byte offsets
	PathMode         PathMode
	Base             string
	Max              int // 0 = all
	IncludeNotes     bool
}

func displayPath(f *source.File, mode PathMode, base string) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual == 0 {
			if abs, err := filepath.Abs(f.Path); err == nil {
				return filepath.ToSlash(abs)
			}
		}
		return f.Path
	case PathModeRelative:
		if base != "" {
			if rel, err := filepath.Rel(base, f.Path); err == nil {
				return filepath.ToSlash(rel)
			}
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	}
	return f.DisplayPath(base)
}
