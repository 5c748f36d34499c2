package driver

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"composita/internal/diag"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListSourcesSortedAndFiltered(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"b.com":         helloSource,
		"a.com":         helloSource,
		"sub/c.com":     helloSource,
		"notes.txt":     "x",
		".hidden/d.com": helloSource,
	})
	files, err := ListSources(dir)
	if err != nil {
		t.Fatal(err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(dir, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"a.com", "b.com", "sub/c.com"}
	if !reflect.DeepEqual(rel, want) {
		t.Fatalf("files = %v, want %v", rel, want)
	}
}

func TestBuildDirKeepsOrderAndIsolatesFailures(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.com": helloSource,
		"b.com": "COMPONENT B; BEGIN x := 1 END B;",
		"c.com": gridSource,
	})
	var mu sync.Mutex
	seen := map[string]int{}
	results, err := BuildDir(context.Background(), dir, Options{
		Stage: StageGenerate,
		Observer: func(ev PhaseEvent) {
			mu.Lock()
			seen[filepath.Base(ev.File)]++
			mu.Unlock()
		},
	}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	for i, name := range []string{"a.com", "b.com", "c.com"} {
		if filepath.Base(results[i].Path) != name {
			t.Errorf("results[%d] = %s, want %s", i, results[i].Path, name)
		}
	}
	if results[0].Failed() || !results[1].Failed() || results[2].Failed() {
		t.Errorf("failed = %v %v %v", results[0].Failed(), results[1].Failed(), results[2].Failed())
	}
	if CountErrors(results) != 1 {
		t.Errorf("errors = %d, want 1", CountErrors(results))
	}
	// a и c проходят три фазы, b останавливается после resolve
	if seen["a.com"] != 6 || seen["b.com"] != 4 || seen["c.com"] != 6 {
		t.Errorf("phase events = %v", seen)
	}
}

func TestCompileFilesReportsUnreadableFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.com": helloSource})
	paths := []string{filepath.Join(dir, "a.com"), filepath.Join(dir, "missing.com")}
	results, err := CompileFiles(context.Background(), paths, Options{Stage: StageResolve}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Failed() {
		t.Errorf("a.com failed: %v", codes(results[0].Bag))
	}
	items := results[1].Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOReadFailed {
		t.Errorf("missing.com diagnostics = %v", codes(results[1].Bag))
	}
}

func TestCompileFilesCancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.com": helloSource})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CompileFiles(ctx, []string{filepath.Join(dir, "a.com")}, Options{}, 1); err == nil {
		t.Fatal("expected cancellation error")
	}
}
