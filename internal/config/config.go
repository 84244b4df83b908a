package config

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/blockedit/internal/config/loader"
	"github.com/dshills/blockedit/internal/config/watcher"
	"github.com/dshills/blockedit/internal/logging"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BLOCKEDIT_"

// DefaultFile is the configuration file name used by the command line.
const DefaultFile = "blockedit.toml"

// Config holds every editor setting.
type Config struct {
	Logging   LoggingConfig   `toml:"logging"`
	Selection SelectionConfig `toml:"selection"`
	Render    RenderConfig    `toml:"render"`
}

// LoggingConfig configures diagnostics.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SelectionConfig configures the selection model.
type SelectionConfig struct {
	// Normalize stores backward selections with start before end.
	Normalize bool `toml:"normalize"`
}

// RenderConfig configures HTML output.
type RenderConfig struct {
	// EscapeSpaces replaces collapsible spaces with non-breaking ones.
	EscapeSpaces bool `toml:"escape_spaces"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Logging:   LoggingConfig{Level: "info", Format: logging.FormatConsole},
		Selection: SelectionConfig{Normalize: true},
		Render:    RenderConfig{EscapeSpaces: true},
	}
}

var (
	validLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validFormats = []string{logging.FormatConsole, logging.FormatJSON}
)

// Validate checks settings restricted to a fixed set of values.
func (c *Config) Validate() error {
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("%w: logging.level %q", ErrInvalidValue, c.Logging.Level)
	}
	if !slices.Contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("%w: logging.format %q", ErrInvalidValue, c.Logging.Format)
	}
	return nil
}

// LoggerConfig converts the logging section for logging.NewLogger.
func (c *Config) LoggerConfig() logging.LoggerConfig {
	lc := logging.DefaultLoggerConfig()
	lc.Level = logging.ParseLogLevel(c.Logging.Level)
	lc.Format = c.Logging.Format
	return lc
}

type options struct {
	path    string
	fs      loader.FileSystem
	env     bool
	environ []string
}

// Option configures Load.
type Option func(*options)

// WithPath reads settings from the TOML file at path. A missing file is
// not an error.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithFS reads the file through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnviron reads overrides from the given KEY=VALUE pairs instead of the
// process environment.
func WithEnviron(environ []string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// WithoutEnv skips environment overrides.
func WithoutEnv() Option {
	return func(o *options) {
		o.env = false
	}
}

// Load builds a Config from defaults, the optional file and the
// environment.
func Load(opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS(), env: true}
	for _, opt := range opts {
		opt(&o)
	}

	var layers []loader.Loader
	if o.path != "" {
		layers = append(layers, loader.NewTOMLLoaderWithFS(o.fs, o.path))
	}
	if o.env {
		if o.environ != nil {
			layers = append(layers, loader.NewEnvLoaderFrom(EnvPrefix, o.environ))
		} else {
			layers = append(layers, loader.NewEnvLoader(EnvPrefix))
		}
	}

	merged := make(map[string]any)
	for _, l := range layers {
		m, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg := Default()
	if err := decode(merged, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode applies the merged layers on top of cfg. Keys without a matching
// field are ignored.
func decode(merged map[string]any, cfg *Config) error {
	data, err := toml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return nil
}

// Watch calls fn with a freshly loaded Config each time the file at path
// is written or created, until ctx is cancelled. Load errors are passed to
// fn rather than ending the watch.
func Watch(ctx context.Context, path string, fn func(*Config, error), opts ...Option) error {
	w, err := watcher.New(watcher.WithDebounce(100 * time.Millisecond))
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return fmt.Errorf("watching %s: %w", path, err)
	}

	opts = append(slices.Clone(opts), WithPath(path))
	w.OnChange(func(e watcher.Event) {
		if e.Op != watcher.OpWrite && e.Op != watcher.OpCreate {
			return
		}
		fn(Load(opts...))
	})
	return w.Run(ctx)
}
