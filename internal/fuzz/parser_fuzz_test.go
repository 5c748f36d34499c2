package fuzztests

import (
	"context"
	"testing"
	"time"

	"composita/internal/driver"
	"composita/internal/testkit"
)

// parseTimeout is the maximum time allowed for a single input. Going past it
// points at a loop in error recovery.
const parseTimeout = 5 * time.Second

// FuzzParserNoHang runs the parser under a deadline.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("COMPONENT A; BEGIN IF x THEN END"))               // unterminated IF
	f.Add([]byte("COMPONENT A; BEGIN WHILE DO END END A;"))         // missing condition
	f.Add([]byte("INTERFACE I; { { { IN X } } END I;"))             // unbalanced repetition
	f.Add([]byte("COMPONENT A; PROCEDURE P(; BEGIN END P; END A;")) // broken parameter list
	f.Add([]byte("COMPONENT A; BEGIN a[1, 2 := 3 END A;"))          // open index

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan *testkit.Parsed, 1)
		go func() {
			done <- testkit.ParseString(ctx, string(input))
		}()

		select {
		case p := <-done:
			if p.Bag.HasErrors() {
				return
			}
			if f := p.Builder.Files.Get(p.FileID); f == nil || len(f.Items) == 0 {
				return
			}
			if err := testkit.CheckSpanInvariants(p.Builder, p.FileID, p.File); err != nil {
				t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzCompile runs the whole front end. Program errors are diagnostics;
// the only acceptable error return is none at all.
func FuzzCompile(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		res, err := driver.CompileSource(context.Background(), "fuzz.com", input, driver.Options{Stage: driver.StageGenerate})
		if err != nil {
			t.Fatalf("internal error: %v\ninput: %q", err, truncateForLog(input, 200))
		}
		if !res.Failed() && res.Module == nil {
			t.Fatalf("clean compile without a module\ninput: %q", truncateForLog(input, 200))
		}
	})
}
