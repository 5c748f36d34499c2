package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"composita/internal/lexer"
	"composita/internal/source"
)

func lex(t *testing.T, src string) (*source.FileSet, *lexer.Lexer) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.com", []byte(src))
	return fs, lexer.New(fs.Get(id), lexer.Options{})
}

func TestFormatTokensPretty(t *testing.T) {
	fs, lx := lex(t, "(* c *) BEGIN x;")
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, lx.All(), fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `BEGIN`) || !strings.Contains(lines[0], "at 1:9-1:14") || !strings.Contains(lines[0], "(leading: comment, space)") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], `"x"`) {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[3], "EOF") {
		t.Errorf("line 3 = %q", lines[3])
	}
}

func TestFormatTokensJSON(t *testing.T) {
	_, lx := lex(t, "VARIABLE n: INTEGER;")
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, lx.All()); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(out) != 6 {
		t.Fatalf("got %d tokens, want 6", len(out))
	}
	if out[0].Kind != "VARIABLE" || out[1].Text != "n" || out[1].Leading[0] != "space" || out[5].Kind != "EOF" {
		t.Errorf("tokens = %+v", out)
	}
}
