package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"composita/internal/diag"
	"composita/internal/source"
)

const tabWidth = 4

type palette struct {
	sev     map[diag.Severity]*color.Color
	path    *color.Color
	gutter  *color.Color
	caret   *color.Color
	noteTag *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		path:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		noteTag: color.New(color.FgCyan),
	}
	all := []*color.Color{p.path, p.gutter, p.caret, p.noteTag}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		// глобальный color.NoColor смотрит на stdout, а пишем мы куда угодно
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := prettyOne(w, d, fs, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	var sb strings.Builder
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	sevColor := pal.sev[d.Severity]
	if sevColor == nil {
		sevColor = pal.sev[diag.SevError]
	}

	fmt.Fprintf(&sb, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", displayPath(f, opts.PathMode, opts.Base), start.Line, start.Col),
		sevColor.Sprint(d.Severity.String()),
		sevColor.Sprint(d.Code.ID()),
		d.Message)

	if f != nil && start.Line > 0 {
		writeSnippet(&sb, f, d.Primary, opts.Context, pal)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(&sb, "  %s %s:%d:%d: %s\n",
				pal.noteTag.Sprint("note:"),
				displayPath(nf, opts.PathMode, opts.Base), ns.Line, ns.Col, n.Msg)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// writeSnippet prints the primary line with up to context lines above it and
// a caret line under the span. Multi-line spans are underlined to the end of
// the first line.
func writeSnippet(sb *strings.Builder, f *source.File, sp source.Span, context int, pal palette) {
	start := f.Position(sp.Start)
	end := f.Position(sp.End)

	first := int(start.Line) - context
	if first < 1 {
		first = 1
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for n := first; n <= int(start.Line); n++ {
		fmt.Fprintf(sb, "%s %s\n",
			pal.gutter.Sprintf("%*d |", gutterWidth, n),
			expandTabs(f.Line(uint32(n))))
	}

	line := f.Line(start.Line)
	col := clampCol(line, start.Col)
	stop := len(line)
	if end.Line == start.Line {
		stop = clampCol(line, end.Col)
	}
	pad := runewidth.StringWidth(expandTabs(line[:col]))
	width := 1
	if stop > col {
		width = runewidth.StringWidth(expandTabs(line[col:stop]))
		if width < 1 {
			width = 1
		}
	}
	fmt.Fprintf(sb, "%s %s%s\n",
		pal.gutter.Sprintf("%*s |", gutterWidth, ""),
		strings.Repeat(" ", pad),
		pal.caret.Sprint("^"+strings.Repeat("~", width-1)))
}

// clampCol converts a 1-based column into a byte index within line.
func clampCol(line string, col uint32) int {
	if col == 0 {
		return 0
	}
	idx := int(col - 1)
	if idx > len(line) {
		return len(line)
	}
	return idx
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
