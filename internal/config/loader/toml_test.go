package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/blockedit.toml", `
[logging]
level = "debug"

[selection]
normalize = false
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/blockedit.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := map[string]any{
		"logging":   map[string]any{"level": "debug"},
		"selection": map[string]any{"normalize": false},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nope.toml").Load()
	if err != nil || config != nil {
		t.Errorf("Load = %v, %v; want nil, nil", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[logging]\nlevel = \n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Path != "/bad.toml" || pe.Line != 2 {
		t.Errorf("ParseError = %+v", pe)
	}
	if !strings.Contains(pe.Error(), "line 2") {
		t.Errorf("Error() = %q", pe.Error())
	}
}

func TestLoadFromReader(t *testing.T) {
	config, err := LoadFromReader(strings.NewReader(`render = { escape_spaces = true }`))
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := Lookup(config, "render", "escape_spaces"); !ok || v != true {
		t.Errorf("render.escape_spaces = %v, %v", v, ok)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"logging": map[string]any{"level": "info", "format": "console"},
		"render":  map[string]any{"escape_spaces": true},
	}
	src := map[string]any{
		"logging": map[string]any{"level": "debug"},
		"render":  "replaced",
	}
	want := map[string]any{
		"logging": map[string]any{"level": "debug", "format": "console"},
		"render":  "replaced",
	}
	if diff := cmp.Diff(want, DeepMerge(dst, src)); diff != "" {
		t.Errorf("DeepMerge mismatch (-want +got):\n%s", diff)
	}
	if got := DeepMerge(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("DeepMerge(nil, nil) = %v", got)
	}
}

func TestLookup(t *testing.T) {
	data := map[string]any{"a": map[string]any{"b": int64(1)}}
	if v, ok := Lookup(data, "a", "b"); !ok || v != int64(1) {
		t.Errorf("Lookup(a.b) = %v, %v", v, ok)
	}
	if _, ok := Lookup(data, "a", "b", "c"); ok {
		t.Error("Lookup through a scalar succeeded")
	}
	if _, ok := Lookup(data, "x"); ok {
		t.Error("Lookup of missing key succeeded")
	}
}
