package settings

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Service manages reading and writing settings on disk.
type Service struct {
	path         string
	cacheManager CacheManager
}

// NewService creates a service backed by the default config path. If
// the platform has no config directory the service still works, it just
// always answers with defaults.
func NewService() *Service {
	path, err := DefaultPath()
	if err != nil {
		path = ""
	}
	return &Service{path: path}
}

// NewServiceAt creates a service backed by an explicit file path.
func NewServiceAt(path string) *Service {
	return &Service{path: path}
}

// SetCacheManager injects the running application's cache so Save can
// apply cache-affecting changes immediately.
func (s *Service) SetCacheManager(cm CacheManager) {
	s.cacheManager = cm
}

// Get returns the effective settings.
func (s *Service) Get() Settings {
	return Load(s.path)
}

// Save writes only the values that differ from defaults. When nothing
// differs the file is removed so a later version's defaults apply
// cleanly. Cache-affecting changes are pushed to the cache manager.
func (s *Service) Save(in Settings) error {
	old := s.Get()
	cacheSizeChanged := old.CacheSizeLimitMB != in.CacheSizeLimitMB
	cacheToggled := old.EnableQueryCache != in.EnableQueryCache

	data := make(map[string]any)
	if in.EnableQueryCache != defaultSettings.EnableQueryCache {
		data["enable_query_cache"] = in.EnableQueryCache
	}
	if in.CacheSizeLimitMB != defaultSettings.CacheSizeLimitMB && in.CacheSizeLimitMB >= 1 {
		data["cache_size_limit_mb"] = in.CacheSizeLimitMB
	}
	if in.DebounceMs != defaultSettings.DebounceMs && in.DebounceMs >= 0 {
		data["debounce_ms"] = in.DebounceMs
	}
	if in.MaxDirectoryFiles != defaultSettings.MaxDirectoryFiles && in.MaxDirectoryFiles >= 10 {
		data["max_directory_files"] = in.MaxDirectoryFiles
	}
	if in.FilePattern != defaultSettings.FilePattern && in.FilePattern != "" {
		data["file_pattern"] = in.FilePattern
	}
	if in.IncludeSourceColumn != defaultSettings.IncludeSourceColumn {
		data["include_source_column"] = in.IncludeSourceColumn
	}

	if s.path == "" {
		return nil
	}

	if len(data) == 0 {
		if _, err := os.Stat(s.path); err == nil {
			_ = os.Remove(s.path)
		}
		s.notify(cacheSizeChanged, cacheToggled)
		return nil
	}

	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return err
	}

	s.notify(cacheSizeChanged, cacheToggled)
	return nil
}

func (s *Service) notify(cacheSizeChanged, cacheToggled bool) {
	if s.cacheManager == nil {
		return
	}
	if cacheToggled {
		s.cacheManager.ClearResultCaches()
	}
	if cacheSizeChanged {
		s.cacheManager.UpdateCacheSize()
	}
}
