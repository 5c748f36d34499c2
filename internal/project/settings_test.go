package project

import (
	"testing"

	"github.com/xyproto/env/v2"
)

func setEnv(t *testing.T, name, value string) {
	t.Helper()
	if err := env.Set(name, value); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = env.Unset(name) })
}

func TestResolveLayers(t *testing.T) {
	off := false
	m := &Manifest{Root: "/proj", Config: Config{Build: BuildConfig{
		Format:         "json",
		Jobs:           3,
		Cache:          &off,
		MaxDiagnostics: 7,
		Output:         "out/app.il.json",
	}}}

	s := Resolve(m)
	if s.Format != "json" || s.Jobs != 3 || s.Cache || s.MaxDiagnostics != 7 {
		t.Errorf("manifest layer = %+v", s)
	}
	if s.Output != "/proj/out/app.il.json" {
		t.Errorf("output = %q", s.Output)
	}

	setEnv(t, EnvFormat, "msgpack")
	setEnv(t, EnvJobs, "5")
	setEnv(t, EnvCache, "true")
	setEnv(t, EnvTraceLevel, "debug")
	s = Resolve(m)
	if s.Format != "msgpack" || s.Jobs != 5 || !s.Cache || s.TraceLevel != "debug" {
		t.Errorf("env layer = %+v", s)
	}
}

func TestResolveDefaults(t *testing.T) {
	s := Resolve(nil)
	d := Defaults()
	if s.Format != d.Format || s.MaxDiagnostics != DefaultMaxDiagnostics || !s.Cache || s.Jobs < 1 {
		t.Errorf("defaults = %+v", s)
	}
}

func TestApplyEnvIgnoresBadJobs(t *testing.T) {
	setEnv(t, EnvJobs, "zero")
	s := Settings{Jobs: 4}
	ApplyEnv(&s)
	if s.Jobs != 4 {
		t.Errorf("jobs = %d, want 4", s.Jobs)
	}
}
