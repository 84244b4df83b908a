package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/blockedit/internal/config/loader"
	"github.com/dshills/blockedit/internal/logging"
)

// memFS serves files from memory.
type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(s), nil
}

func (m memFS) Stat(path string) (os.FileInfo, error) {
	return nil, os.ErrNotExist
}

var noEnv = WithEnviron([]string{})

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(noEnv)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLayers(t *testing.T) {
	fsys := memFS{"/b.toml": `
[logging]
level = "debug"
format = "json"

[selection]
normalize = false

[unknown]
ignored = 1
`}
	cfg, err := Load(
		WithFS(fsys),
		WithPath("/b.toml"),
		WithEnviron([]string{"BLOCKEDIT_LOG_LEVEL=error", "BLOCKEDIT_RENDER_ESCAPE_SPACES=false"}),
	)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Logging:   LoggingConfig{Level: "error", Format: "json"},
		Selection: SelectionConfig{Normalize: false},
		Render:    RenderConfig{EscapeSpaces: false},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(WithFS(memFS{}), WithPath("/none.toml"), noEnv)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Selection.Normalize {
		t.Error("missing file changed defaults")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		env   []string
		check func(error) bool
	}{
		{
			name:  "bad level",
			file:  "[logging]\nlevel = \"loud\"\n",
			check: func(err error) bool { return errors.Is(err, ErrInvalidValue) },
		},
		{
			name:  "bad format",
			env:   []string{"BLOCKEDIT_LOG_FORMAT=xml"},
			check: func(err error) bool { return errors.Is(err, ErrInvalidValue) },
		},
		{
			name:  "type mismatch",
			file:  "[selection]\nnormalize = \"sometimes\"\n",
			check: func(err error) bool { return errors.Is(err, ErrInvalidValue) },
		},
		{
			name: "syntax",
			file: "[selection\n",
			check: func(err error) bool {
				var pe *loader.ParseError
				return errors.As(err, &pe)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := tt.env
			if env == nil {
				env = []string{}
			}
			_, err := Load(WithFS(memFS{"/c.toml": tt.file}), WithPath("/c.toml"), WithEnviron(env))
			if err == nil || !tt.check(err) {
				t.Errorf("Load error = %v", err)
			}
		})
	}
}

func TestWithoutEnv(t *testing.T) {
	t.Setenv("BLOCKEDIT_LOG_LEVEL", "debug")
	cfg, err := Load(WithoutEnv())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %q, want info", cfg.Logging.Level)
	}

	cfg, err = Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level with env = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Logging = LoggingConfig{Level: "warn", Format: "json"}
	lc := cfg.LoggerConfig()
	if lc.Level != logging.LogLevelWarn || lc.Format != logging.FormatJSON {
		t.Errorf("LoggerConfig = %+v", lc)
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte("[render]\nescape_spaces = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type result struct {
		cfg *Config
		err error
	}
	results := make(chan result, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config, err error) { results <- result{c, err} }, noEnv)
	}()

	// Keep rewriting until the watcher, started asynchronously, reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(150 * time.Millisecond)
	defer tick.Stop()
	for {
		if err := os.WriteFile(path, []byte("[render]\nescape_spaces = false\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case r := <-results:
			if r.err != nil {
				t.Fatalf("reload error: %v", r.err)
			}
			if r.cfg.Render.EscapeSpaces {
				t.Error("reloaded config kept escape_spaces = true")
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("Watch returned %v", err)
			}
			return
		case <-tick.C:
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "no", "x.toml"), func(*Config, error) {})
	if err == nil {
		t.Error("Watch in missing directory succeeded")
	}
}
