package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"composita/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new Composita project",
	Long: `Initialize a new Composita project by creating a project manifest
(composita.toml) and a hello-world entry point (main.com). If [path|name] is
omitted, initializes the current directory. A missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const defaultMainSource = `COMPONENT {ENTRYPOINT} HelloWorld;
	BEGIN
		WRITE("Hello World"); WRITELINE
	END HelloWorld;
`

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	return initProject(cmd.OutOrStdout(), target)
}

// initProject refuses to touch a directory that already has a manifest;
// an existing main.com is kept.
func initProject(out io.Writer, target string) error {
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "composita-project"
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	cfg := project.DefaultConfig(name)
	if _, err := project.WriteManifest(target, cfg); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, cfg.Package.Entry)
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMainSource), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", cfg.Package.Entry, err)
		}
		createdMain = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, target); err == nil {
			rel = r
		}
	}
	fmt.Fprintf(out, "Initialized composita project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdMain {
		fmt.Fprintf(out, "  - %s\n", cfg.Package.Entry)
	} else {
		fmt.Fprintf(out, "  - %s (existing)\n", cfg.Package.Entry)
	}
	return nil
}
