package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	// Test that default values are set
	if Version == "" {
		t.Error("Version should have a default value")
	}

	if info := Current(); info.Version != Version {
		t.Errorf("Current().Version = %q, want %q", info.Version, Version)
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	// Save original values
	origVersion := Version
	origGitCommit := GitCommit
	origBuildDate := BuildDate

	// Override values (simulating build-time ldflags)
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	want := Info{Version: "1.2.3", GitCommit: "abc123def456", BuildDate: "2024-01-15T10:30:00Z"}
	if got := Current(); got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}

	// Restore original values
	Version = origVersion
	GitCommit = origGitCommit
	BuildDate = origBuildDate
}

func TestBanner(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "composita 0.1.0-dev"},
		{"1.2.3", "abc123", "", "composita 1.2.3 (abc123)"},
		{"1.2.3", "abc123", "2024-01-15", "composita 1.2.3 (abc123) built 2024-01-15"},
	}
	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := Banner(false); got != tt.want {
			t.Errorf("Banner() = %q, want %q", got, tt.want)
		}
	}
}

func TestColoredKeepsMalformed(t *testing.T) {
	if got := Colored("nightly"); got != "nightly" {
		t.Errorf("Colored(nightly) = %q", got)
	}
	if got := Colored("1.2.3-rc.1"); !strings.HasSuffix(got, "-rc.1") {
		t.Errorf("Colored lost suffix: %q", got)
	}
}
