package loader

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnvLoader_Load(t *testing.T) {
	loader := NewEnvLoaderFrom("BLOCKEDIT_", []string{
		"BLOCKEDIT_LOG_LEVEL=debug",
		"BLOCKEDIT_RENDER_ESCAPE_SPACES=off",
		"BLOCKEDIT_SELECTION_NORMALIZE=true",
		"BLOCKEDIT_LIMITS_MAX=10",
		"BLOCKEDIT_EMPTY_VALUE=",
		"BLOCKEDIT_NOSETTING=x",
		"OTHER_LOG_LEVEL=error",
		"malformed",
	})
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := map[string]any{
		"logging":   map[string]any{"level": "debug"},
		"render":    map[string]any{"escape_spaces": false},
		"selection": map[string]any{"normalize": true},
		"limits":    map[string]any{"max": int64(10)},
		"empty":     map[string]any{"value": ""},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	loader := NewEnvLoaderFrom("BLOCKEDIT_", []string{"BLOCKEDIT_NBSP=no"})
	loader.AddMapping("NBSP", "render.escape_spaces")
	config, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := Lookup(config, "render", "escape_spaces"); !ok || v != false {
		t.Errorf("render.escape_spaces = %v, %v", v, ok)
	}
}

func TestEnvLoader_ProcessEnvironment(t *testing.T) {
	t.Setenv("BLOCKEDIT_TEST_SETTING", "value")

	config, err := NewEnvLoader("BLOCKEDIT_").Load()
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := Lookup(config, "test", "setting"); !ok || v != "value" {
		t.Errorf("test.setting = %v, %v", v, ok)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"Yes", true},
		{"off", false},
		{"42", int64(42)},
		{"1", int64(1)},
		{"debug", "debug"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}
