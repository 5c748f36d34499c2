package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"composita/internal/diagfmt"
	"composita/internal/driver"
	"composita/internal/project"
)

// cliSettings are project settings with command-line overrides applied.
type cliSettings struct {
	project.Settings
	Manifest *project.Manifest
	Quiet    bool
	Timings  bool
	PathMode diagfmt.PathMode
}

// loadSettings discovers the manifest governing start (a file or a
// directory) and layers flags over it.
func loadSettings(cmd *cobra.Command, start string) (*cliSettings, error) {
	dir := start
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		dir = filepath.Dir(start)
	}
	manifest, err := project.Discover(dir)
	if err != nil && !errors.Is(err, project.ErrNoManifest) {
		return nil, err
	}
	s := &cliSettings{Settings: project.Resolve(manifest), Manifest: manifest}

	root := cmd.Root().PersistentFlags()
	if s.Quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.Timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if root.Changed("max-diagnostics") {
		if s.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	pathMode, err := root.GetString("path-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if s.PathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		if s.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	if f := flags.Lookup("emit"); f != nil && f.Changed {
		if s.Format, err = flags.GetString("emit"); err != nil {
			return nil, err
		}
	}
	if f := flags.Lookup("output"); f != nil && f.Changed {
		if s.Output, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if f := flags.Lookup("no-cache"); f != nil && f.Changed {
		noCache, err := flags.GetBool("no-cache")
		if err != nil {
			return nil, err
		}
		s.Cache = !noCache
	}
	return s, nil
}

// openCache returns nil when caching is disabled. A cache that cannot be
// opened only costs a warning.
func (s *cliSettings) openCache(cmd *cobra.Command) *driver.DiskCache {
	if !s.Cache {
		return nil
	}
	cache, err := driver.OpenDiskCache("composita")
	if err != nil {
		if !s.Quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: IL cache disabled: %v\n", err)
		}
		return nil
	}
	return cache
}

// resolveTarget picks the explicit argument or the manifest entry point.
func resolveTarget(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	manifest, err := project.Discover(wd)
	if err != nil {
		if errors.Is(err, project.ErrNoManifest) {
			return "", fmt.Errorf("no target given and no %s found", project.ManifestName)
		}
		return "", err
	}
	return manifest.EntryPath(), nil
}

func envNoColor() bool {
	s := project.Defaults()
	project.ApplyEnv(&s)
	return s.NoColor
}
