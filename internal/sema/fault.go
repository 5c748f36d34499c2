package sema

import (
	"fmt"

	"composita/internal/diag"
	"composita/internal/source"
)

// Fault is the first resolution failure. Resolution never continues past one.
type Fault struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (f *Fault) Error() string {
	return f.Msg
}

// fail aborts resolution; Resolve turns the panic back into a *Fault.
func (r *resolver) fail(code diag.Code, sp source.Span, format string, args ...any) {
	panic(&Fault{Code: code, Span: sp, Msg: fmt.Sprintf(format, args...)})
}

// catch recovers a *Fault into *err and lets every other panic through.
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
