// Package trace records the progress of a compilation as nested spans.
//
// The driver opens a span per command and per pass (lex, parse, resolve,
// generate); the resolver and the code generator open one per component.
// A stuck build shows up as a begin event without its end.
//
//	composita build --trace=- --trace-level=phase main.com
//
// Tracers:
//
//   - Nop drops everything and is the default
//   - StreamTracer writes each event as it happens
//   - RingTracer keeps the last events for a crash dump
//   - MultiTracer fans out to several tracers
//
// A Level picks the coarsest Scope that is still emitted: phase keeps driver
// and pass events, detail adds the per-component ones.
package trace
