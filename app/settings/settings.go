package settings

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gridline", "gridline.yml"), nil
}

// Load returns the defaults overlaid with whatever the file at path
// defines. A missing or unreadable file, or one that does not parse,
// yields plain defaults; settings never block startup.
func Load(path string) Settings {
	settings := defaultSettings
	if path == "" {
		return settings
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return settings
	}
	// Unmarshal into a generic map so absent keys keep their defaults
	// and a false in the file is distinguishable from "not set".
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return settings
	}
	overlay(&settings, m)
	return settings
}

func overlay(settings *Settings, m map[string]any) {
	if v, ok := m["enable_query_cache"]; ok {
		if vb, okb := v.(bool); okb {
			settings.EnableQueryCache = vb
		}
	}
	if v, ok := m["cache_size_limit_mb"]; ok {
		if vi, oki := v.(int); oki && vi >= 1 {
			settings.CacheSizeLimitMB = vi
		}
	}
	if v, ok := m["debounce_ms"]; ok {
		if vi, oki := v.(int); oki && vi >= 0 {
			settings.DebounceMs = vi
		}
	}
	if v, ok := m["max_directory_files"]; ok {
		if vi, oki := v.(int); oki && vi >= 10 {
			settings.MaxDirectoryFiles = vi
		}
	}
	if v, ok := m["file_pattern"]; ok {
		if vs, oks := v.(string); oks && vs != "" {
			settings.FilePattern = vs
		}
	}
	if v, ok := m["include_source_column"]; ok {
		if vb, okb := v.(bool); okb {
			settings.IncludeSourceColumn = vb
		}
	}
}
