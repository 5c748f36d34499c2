package project

import (
	"runtime"

	"github.com/xyproto/env/v2"
)

// Environment variables that override the manifest. Command-line flags
// override both.
const (
	EnvJobs       = "COMPOSITA_JOBS"
	EnvCache      = "COMPOSITA_CACHE"
	EnvFormat     = "COMPOSITA_FORMAT"
	EnvTrace      = "COMPOSITA_TRACE"
	EnvTraceLevel = "COMPOSITA_TRACE_LEVEL"
	EnvNoColor    = "COMPOSITA_NO_COLOR"
)

const DefaultMaxDiagnostics = 100

// Settings are the effective build options after manifest and environment.
type Settings struct {
	Jobs           int
	Cache          bool
	Format         string
	Output         string
	MaxDiagnostics int
	Trace          string // trace output, "" = off
	TraceLevel     string
	NoColor        bool
}

// Defaults apply when neither manifest nor environment say otherwise.
func Defaults() Settings {
	return Settings{
		Jobs:           runtime.GOMAXPROCS(0),
		Cache:          true,
		Format:         "text",
		MaxDiagnostics: DefaultMaxDiagnostics,
		TraceLevel:     "phase",
	}
}

// Resolve layers the manifest (may be nil) and then the environment over
// the defaults.
func Resolve(m *Manifest) Settings {
	s := Defaults()
	if m != nil {
		b := m.Config.Build
		if b.Jobs > 0 {
			s.Jobs = b.Jobs
		}
		if b.Cache != nil {
			s.Cache = *b.Cache
		}
		if b.Format != "" {
			s.Format = b.Format
		}
		if b.MaxDiagnostics > 0 {
			s.MaxDiagnostics = b.MaxDiagnostics
		}
		s.Output = m.OutputPath()
	}
	ApplyEnv(&s)
	return s
}

// ApplyEnv overrides s from COMPOSITA_* variables that are set.
func ApplyEnv(s *Settings) {
	if env.Has(EnvJobs) {
		if n := env.Int(EnvJobs, s.Jobs); n > 0 {
			s.Jobs = n
		}
	}
	if env.Has(EnvCache) {
		s.Cache = env.Bool(EnvCache)
	}
	s.Format = env.Str(EnvFormat, s.Format)
	s.Trace = env.Str(EnvTrace, s.Trace)
	s.TraceLevel = env.Str(EnvTraceLevel, s.TraceLevel)
	if env.Has(EnvNoColor) || env.Has("NO_COLOR") {
		s.NoColor = true
	}
}
