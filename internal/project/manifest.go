// Package project loads composita.toml and the COMPOSITA_* environment.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"composita/internal/diag"
	"composita/internal/il"
)

// ManifestName is the project file looked up from the working directory.
const ManifestName = "composita.toml"

// ErrNoManifest is returned when no composita.toml exists up to the root.
var ErrNoManifest = errors.New("no " + ManifestName + " found")

// ManifestError is a problem with a specific manifest file.
type ManifestError struct {
	Path string
	Code diag.Code
	Err  error
}

func (e *ManifestError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *ManifestError) Unwrap() error { return e.Err }

type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

type PackageConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version,omitempty"`
	// Entry is a .com file or a directory of them, relative to the manifest.
	Entry string `toml:"entry"`
}

type BuildConfig struct {
	Output         string `toml:"output,omitempty"`
	Format         string `toml:"format,omitempty"`
	Jobs           int    `toml:"jobs,omitempty"`
	Cache          *bool  `toml:"cache,omitempty"`
	MaxDiagnostics int    `toml:"max_diagnostics,omitempty"`
}

// FindManifest walks up from startDir to locate composita.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the manifest governing startDir.
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	return LoadManifest(path)
}

func LoadManifest(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ManifestError{Path: path, Code: diag.ProjManifestNotFound, Err: err}
		}
		return nil, invalid(path, "failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, invalid(path, "unknown key %s", undecoded[0])
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, invalid(path, "missing [package].name")
	}
	if !meta.IsDefined("package", "entry") || strings.TrimSpace(cfg.Package.Entry) == "" {
		return nil, invalid(path, "missing [package].entry")
	}
	if cfg.Build.Format != "" {
		if _, err := il.ParseFormat(cfg.Build.Format); err != nil {
			return nil, invalid(path, "[build].format: %w", err)
		}
	}
	if cfg.Build.Jobs < 0 || cfg.Build.MaxDiagnostics < 0 {
		return nil, invalid(path, "[build] jobs and max_diagnostics must not be negative")
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

func invalid(path, format string, args ...any) error {
	return &ManifestError{Path: path, Code: diag.ProjManifestInvalid, Err: fmt.Errorf(format, args...)}
}

// EntryPath resolves [package].entry against the manifest directory.
func (m *Manifest) EntryPath() string {
	return filepath.Join(m.Root, filepath.FromSlash(strings.TrimSpace(m.Config.Package.Entry)))
}

// OutputPath resolves [build].output, empty when unset.
func (m *Manifest) OutputPath() string {
	out := strings.TrimSpace(m.Config.Build.Output)
	if out == "" {
		return ""
	}
	return filepath.Join(m.Root, filepath.FromSlash(out))
}

// DefaultConfig is what `composita init` writes.
func DefaultConfig(name string) Config {
	return Config{
		Package: PackageConfig{Name: name, Version: "0.1.0", Entry: "main.com"},
		Build:   BuildConfig{Format: "text"},
	}
}

// WriteManifest creates dir/composita.toml. An existing manifest is left
// untouched and reported as an error.
func WriteManifest(dir string, cfg Config) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s already exists", path)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return path, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	return path, nil
}
