package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	got := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if got != Default() {
		t.Errorf("Load = %+v, want defaults", got)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridline.yml")
	content := "cache_size_limit_mb: 250\ndebounce_ms: 50\nfile_pattern: \"**/*.json\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got := Load(path)
	if got.CacheSizeLimitMB != 250 || got.DebounceMs != 50 || got.FilePattern != "**/*.json" {
		t.Errorf("overlay not applied: %+v", got)
	}
	if !got.EnableQueryCache || got.MaxDirectoryFiles != 1000 {
		t.Errorf("untouched keys should keep defaults: %+v", got)
	}
}

func TestLoadIgnoresBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridline.yml")
	content := "cache_size_limit_mb: \"big\"\nmax_directory_files: 2\ndebounce_ms: -5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got := Load(path)
	if got != Default() {
		t.Errorf("bad values should be ignored, got %+v", got)
	}
}

func TestLoadMalformedYAMLReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridline.yml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Load(path); got != Default() {
		t.Errorf("Load = %+v, want defaults", got)
	}
}

func TestSaveWritesOnlyOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "gridline.yml")
	svc := NewServiceAt(path)

	in := Default()
	in.CacheSizeLimitMB = 50
	if err := svc.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("settings file not written: %v", err)
	}
	content := string(b)
	if content != "cache_size_limit_mb: 50\n" {
		t.Errorf("file should hold the single override, got %q", content)
	}

	if got := svc.Get(); got.CacheSizeLimitMB != 50 || got.DebounceMs != 200 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestSaveDefaultsRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridline.yml")
	svc := NewServiceAt(path)

	in := Default()
	in.DebounceMs = 500
	if err := svc.Save(in); err != nil {
		t.Fatal(err)
	}
	if err := svc.Save(Default()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("all-defaults save should remove the file")
	}
}

type fakeCacheManager struct {
	cleared int
	resized int
}

func (f *fakeCacheManager) ClearResultCaches() { f.cleared++ }
func (f *fakeCacheManager) UpdateCacheSize()   { f.resized++ }

func TestSaveNotifiesCacheManager(t *testing.T) {
	svc := NewServiceAt(filepath.Join(t.TempDir(), "gridline.yml"))
	cm := &fakeCacheManager{}
	svc.SetCacheManager(cm)

	in := Default()
	in.CacheSizeLimitMB = 10
	if err := svc.Save(in); err != nil {
		t.Fatal(err)
	}
	if cm.resized != 1 {
		t.Errorf("resized = %d, want 1", cm.resized)
	}
	if cm.cleared != 0 {
		t.Errorf("cleared = %d, want 0", cm.cleared)
	}

	in.EnableQueryCache = false
	if err := svc.Save(in); err != nil {
		t.Fatal(err)
	}
	if cm.cleared != 1 {
		t.Errorf("cleared = %d after toggle, want 1", cm.cleared)
	}
}
