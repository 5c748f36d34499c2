package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"composita/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	files := []string{"a.com", "lib/b.com"}
	m := NewProgressModel("build", files, nil).(*progressModel)

	steps := []struct {
		ev   buildpipeline.Event
		file int
		want string
	}{
		{buildpipeline.Event{File: "a.com", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking}, 0, "parsing"},
		{buildpipeline.Event{File: "a.com", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusWorking}, 0, "generating"},
		{buildpipeline.Event{File: "lib/b.com", Stage: buildpipeline.StageResolve, Status: buildpipeline.StatusError}, 1, "error"},
		{buildpipeline.Event{File: "a.com", Stage: buildpipeline.StageEmit, Status: buildpipeline.StatusDone}, 0, "done"},
		{buildpipeline.Event{File: "unknown.com", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking}, 0, "done"},
	}
	for i, st := range steps {
		m.applyEvent(st.ev)
		if got := m.items[st.file].status; got != st.want {
			t.Fatalf("step %d: status = %q, want %q", i, got, st.want)
		}
	}

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageEmit, Status: buildpipeline.StatusWorking})
	view := m.View()
	for _, want := range []string{"build (writing)", "a.com", "lib/b.com", "error"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestProgressModelStartsQueued(t *testing.T) {
	m := NewProgressModel("build", []string{"a.com"}, nil).(*progressModel)
	item := m.items[0]
	if item.status != "queued" || item.stage != "" {
		t.Fatalf("initial item = %+v", item)
	}
	if p := progressFromStage(item.stage); p != 0 {
		t.Fatalf("queued progress = %v, want 0", p)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.com", 20, "short.com"},
		{"very/long/path/to/file.com", 10, "very/lo..."},
		{"abc", 2, "ab"},
		{"компонент.com", 8, "компо..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if runewidth.StringWidth(got) > tt.width {
			t.Errorf("truncate(%q, %d) is too wide", tt.in, tt.width)
		}
	}
}
