package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader loads configuration from environment variables.
//
// Variables are named PREFIX_SECTION_SETTING; the section is the first
// word and the rest, joined by underscores, is the setting. With prefix
// BLOCKEDIT_, BLOCKEDIT_RENDER_ESCAPE_SPACES sets render.escape_spaces.
// Names in the mapping, given without the prefix, override that rule.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "BLOCKEDIT_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, mapping: defaultEnvMapping(), environ: os.Environ}
}

// NewEnvLoaderFrom creates a loader reading the given KEY=VALUE pairs
// instead of the process environment.
func NewEnvLoaderFrom(prefix string, environ []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return environ }
	return l
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"LOG_LEVEL":  "logging.level",
		"LOG_FORMAT": "logging.format",
	}
}

// AddMapping maps the variable PREFIX+name to a section.setting path.
func (l *EnvLoader) AddMapping(name, path string) {
	l.mapping[name] = path
}

// Load reads prefixed variables into a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		section, setting, ok := l.envToPath(name)
		if !ok {
			continue
		}
		sec, _ := config[section].(map[string]any)
		if sec == nil {
			sec = make(map[string]any)
			config[section] = sec
		}
		sec[setting] = parseValue(value)
	}
	return config, nil
}

// envToPath converts BLOCKEDIT_RENDER_ESCAPE_SPACES to render, escape_spaces.
func (l *EnvLoader) envToPath(env string) (section, setting string, ok bool) {
	name := strings.TrimPrefix(env, l.prefix)
	if path, mapped := l.mapping[name]; mapped {
		return strings.Cut(path, ".")
	}
	section, setting, ok = strings.Cut(strings.ToLower(name), "_")
	if !ok || section == "" || setting == "" {
		return "", "", false
	}
	return section, setting, true
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}
