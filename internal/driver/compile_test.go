package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"composita/internal/diag"
	"composita/internal/observ"
	"composita/internal/token"
	"composita/internal/trace"
)

const helloSource = `COMPONENT {ENTRYPOINT} HelloWorld;
	BEGIN
		WRITE("Hello World"); WRITELINE
	END HelloWorld;
`

const gridSource = `COMPONENT {ENTRYPOINT} Grid;
	VARIABLE cell[x, y: INTEGER]: REAL;
	BEGIN
		FOREACH a, b OF cell DO WRITE(a + b) END
	END Grid;
`

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestCompileSourceStages(t *testing.T) {
	tests := []struct {
		stage      Stage
		wantTokens bool
		wantTree   bool
		wantTable  bool
		wantModule bool
	}{
		{StageLex, true, false, false, false},
		{StageParse, false, true, false, false},
		{StageResolve, false, true, true, false},
		{StageGenerate, false, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			res, err := CompileSource(context.Background(), "hello.com", []byte(helloSource), Options{Stage: tt.stage})
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if res.Failed() {
				t.Fatalf("diagnostics: %v", codes(res.Bag))
			}
			if got := len(res.Tokens) > 0; got != tt.wantTokens {
				t.Errorf("tokens present = %v", got)
			}
			if got := res.Builder != nil; got != tt.wantTree {
				t.Errorf("tree present = %v", got)
			}
			if got := res.Sema != nil; got != tt.wantTable {
				t.Errorf("table present = %v", got)
			}
			if got := res.Module != nil; got != tt.wantModule {
				t.Errorf("module present = %v", got)
			}
		})
	}
}

func TestCompileSourceStopsAtFirstFailingPhase(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode diag.Code
		prefix   string
	}{
		{"lexer error", "COMPONENT A; BEGIN WRITE(\"open END A;", diag.LexUnterminatedText, ""},
		{"resolve error", "COMPONENT A; BEGIN x := 1 END A;", diag.SemaUnresolved, "failed to resolve: "},
		{"generate error", `INTERFACE SystemTime; IN Get OUT Time(t: INTEGER) END SystemTime;
			COMPONENT A REQUIRES SystemTime; BEGIN NEW(SystemTime) END A;`, diag.GenUnsupported, "failed to compile: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CompileSource(context.Background(), "bad.com", []byte(tt.src), Options{Stage: StageGenerate})
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if !res.Failed() || res.Module != nil {
				t.Fatalf("expected failure without module, got %v", codes(res.Bag))
			}
			items := res.Bag.Items()
			if items[0].Code != tt.wantCode {
				t.Fatalf("codes = %v, want first %s", codes(res.Bag), tt.wantCode.ID())
			}
			if !strings.HasPrefix(items[0].Message, tt.prefix) {
				t.Errorf("message = %q, want prefix %q", items[0].Message, tt.prefix)
			}
		})
	}
}

func TestCompileHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompileSource(ctx, "hello.com", []byte(helloSource), Options{Stage: StageGenerate})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCompileReportsPhases(t *testing.T) {
	var mu sync.Mutex
	var events []string
	timer := observ.NewTimer()
	ring := trace.NewRingTracer(64, trace.LevelDetail)

	_, err := CompileSource(context.Background(), "hello.com", []byte(helloSource), Options{
		Stage:  StageGenerate,
		Timer:  timer,
		Tracer: ring,
		Observer: func(ev PhaseEvent) {
			mu.Lock()
			defer mu.Unlock()
			if ev.Status == PhaseStart {
				events = append(events, ev.Name)
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"parse", "resolve", "generate"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("phases = %v, want %v", events, want)
	}
	if r := timer.Report(); len(r.Phases) != 3 || r.Phases[2].Name != "generate" {
		t.Errorf("timer report = %+v", r)
	}

	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	if len(names) == 0 || names[0] != "compile" {
		t.Fatalf("spans = %v", names)
	}
	joined := strings.Join(names, ",")
	for _, n := range want {
		if !strings.Contains(joined, n) {
			t.Errorf("missing span %q in %v", n, names)
		}
	}
}

func TestTokenizeAndParseFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.com")
	if err := os.WriteFile(path, []byte(helloSource), 0o600); err != nil {
		t.Fatal(err)
	}

	tok, err := Tokenize(context.Background(), path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(tok.Tokens); n == 0 || tok.Tokens[n-1].Kind != token.EOF {
		t.Fatalf("tokens do not end with EOF: %d", n)
	}

	parsed, err := Parse(context.Background(), path, 0)
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := parsed.Outline(&sb); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "HelloWorld") {
		t.Errorf("outline lacks component:\n%s", sb.String())
	}

	if _, err := Parse(context.Background(), filepath.Join(dir, "missing.com"), 0); err == nil {
		t.Error("expected error for a missing file")
	}
}
