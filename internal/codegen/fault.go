package codegen

import (
	"errors"
	"fmt"

	"composita/internal/diag"
	"composita/internal/source"
)

// Fault is a construct the generator cannot translate. Generation stops at
// the first one.
type Fault struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (f *Fault) Error() string {
	return f.Msg
}

func fail(code diag.Code, sp source.Span, format string, args ...any) {
	panic(&Fault{Code: code, Span: sp, Msg: fmt.Sprintf(format, args...)})
}

// catch recovers a *Fault into *err. Assembler panics are bugs and pass.
func catch(err *error) {
	rec := recover()
	if rec == nil {
		return
	}
	f, ok := rec.(*Fault)
	if !ok {
		panic(rec)
	}
	*err = f
}

// Report turns a generation error into one error diagnostic.
func Report(rep diag.Reporter, err error, sp source.Span) {
	if rep == nil || err == nil {
		return
	}
	var f *Fault
	if errors.As(err, &f) {
		diag.ReportError(rep, f.Code, f.Span, "failed to compile: "+f.Msg).Emit()
		return
	}
	diag.ReportError(rep, diag.GenInfo, sp, "failed to compile: "+err.Error()).Emit()
}
