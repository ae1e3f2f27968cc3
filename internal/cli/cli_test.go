package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/dshills/vent/internal/config"
	"github.com/dshills/vent/internal/script"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"run", "events", "version"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected command %s: %v", name, err)
			continue
		}
		if sub.Name() != name {
			t.Errorf("expected %s, got %s", name, sub.Name())
		}
	}

	if f := cmd.PersistentFlags().Lookup("config"); f == nil || f.Shorthand != "c" {
		t.Error("expected --config with shorthand -c")
	}
}

func TestRun_Golden(t *testing.T) {
	stdout, stderr, err := execute(t, "run", "testdata/page.html", "testdata/script.lua")
	if err != nil {
		t.Fatalf("run failed: %v (stderr: %s)", err, stderr)
	}

	newGoldie(t).Assert(t, "run", []byte(stdout))
}

func TestRun_DebugLogging(t *testing.T) {
	_, stderr, err := execute(t, "--log-level", "debug", "run", "testdata/page.html", "testdata/script.lua")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(stderr, "[DEBUG]") || !strings.Contains(stderr, "component=vent") {
		t.Errorf("expected debug output from the engine, got %q", stderr)
	}
}

func TestRun_ScriptError(t *testing.T) {
	_, _, err := execute(t, "run", "testdata/page.html", "testdata/broken.lua")

	var serr *script.ScriptError
	if !errors.As(err, &serr) {
		t.Fatalf("expected ScriptError, got %v", err)
	}
	if serr.Source != "testdata/broken.lua" {
		t.Errorf("expected source testdata/broken.lua, got %q", serr.Source)
	}
}

func TestRun_MissingDocument(t *testing.T) {
	_, _, err := execute(t, "run", "testdata/missing.html", "testdata/script.lua")
	if err == nil {
		t.Error("expected an error for a missing document")
	}
}

func TestRun_Args(t *testing.T) {
	if _, _, err := execute(t, "run", "testdata/page.html"); err == nil {
		t.Error("expected an error for a missing script argument")
	}
}

func TestRun_InvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud", "run", "testdata/page.html", "testdata/script.lua")
	if err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("expected invalid log level error, got %v", err)
	}
}

func TestEvents_TOMLGolden(t *testing.T) {
	stdout, _, err := execute(t, "--config", "testdata/native.toml", "events")
	if err != nil {
		t.Fatalf("events failed: %v", err)
	}

	newGoldie(t).Assert(t, "events_toml", []byte(stdout))
}

func TestEvents_Count(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"default", []string{"events", "--count"}, "102\n"},
		{"yaml", []string{"-c", "testdata/native.yaml", "events", "--count"}, "3\n"},
		{"missing file", []string{"-c", "testdata/absent.toml", "events", "--count"}, "102\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("events failed: %v", err)
			}
			if stdout != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stdout)
			}
		})
	}
}

func TestEvents_UnsupportedConfig(t *testing.T) {
	_, _, err := execute(t, "-c", "testdata/page.html", "events")
	if !errors.Is(err, config.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if stdout != "vent dev (unknown)\n" {
		t.Errorf("unexpected version output %q", stdout)
	}
}
