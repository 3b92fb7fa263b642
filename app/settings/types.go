package settings

// Settings holds user-tunable options overlaid from the config file.
type Settings struct {
	EnableQueryCache bool `yaml:"enable_query_cache"`
	// Cache size limit in MB for the query result cache
	CacheSizeLimitMB int `yaml:"cache_size_limit_mb"`
	// Delay between the last keystroke and the query run
	DebounceMs int `yaml:"debounce_ms"`
	// Maximum number of files when opening a directory
	MaxDirectoryFiles int `yaml:"max_directory_files"`
	// Glob selecting files when opening a directory
	FilePattern string `yaml:"file_pattern"`
	// Whether directory loads append the source file column
	IncludeSourceColumn bool `yaml:"include_source_column"`
}

// CacheManager is what Save needs to push cache-affecting changes into
// the running application without importing it.
type CacheManager interface {
	ClearResultCaches()
	UpdateCacheSize()
}

// defaultSettings defines the built-in defaults.
var defaultSettings = Settings{
	EnableQueryCache:    true,
	CacheSizeLimitMB:    100,
	DebounceMs:          200,
	MaxDirectoryFiles:   1000,
	FilePattern:         "*.csv",
	IncludeSourceColumn: true,
}

// Default returns the built-in defaults.
func Default() Settings {
	return defaultSettings
}
