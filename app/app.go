package app

import (
	"fmt"
	"sync"

	"gridline/app/cache"
	"gridline/app/fileloader"
	"gridline/app/query"
	"gridline/app/settings"
	"gridline/app/workspace"
)

// App wires the loaders, the query engine, the result cache and the
// workspace together behind one service the TUI talks to.
type App struct {
	mu       sync.RWMutex
	tabs     map[string]*Tab // keyed by tab ID
	order    []string
	activeID string

	settings  *settings.Service
	workspace *workspace.Service
	cache     *cache.Cache
	logger    *Logger
}

// New creates the app service. The cache is sized from settings and
// shares the app's logger; the settings service gets the app back as
// its cache manager so saved changes take effect immediately.
func New(st *settings.Service, logger *Logger) *App {
	current := st.Get()
	cacheSizeBytes := int64(current.CacheSizeLimitMB) * 1024 * 1024

	a := &App{
		tabs:      make(map[string]*Tab),
		settings:  st,
		workspace: workspace.NewService(),
		cache:     cache.New(cacheSizeBytes),
		logger:    logger,
	}
	a.cache.SetLogger(logger)
	st.SetCacheManager(a)
	return a
}

// Log writes to the app log file. Safe on a nil app or logger.
func (a *App) Log(level, message string) {
	if a == nil {
		return
	}
	a.logger.Log(level, message)
}

// Settings returns the current effective settings.
func (a *App) Settings() settings.Settings {
	return a.settings.Get()
}

// SaveSettings persists the given settings and applies cache changes.
func (a *App) SaveSettings(s settings.Settings) error {
	return a.settings.Save(s)
}

// DefaultLoadOptions returns load options seeded from settings. Callers
// overlay per-open flags on top.
func (a *App) DefaultLoadOptions() fileloader.Options {
	s := a.settings.Get()
	return fileloader.Options{
		Pattern:             s.FilePattern,
		IncludeSourceColumn: s.IncludeSourceColumn,
		MaxFiles:            s.MaxDirectoryFiles,
	}
}

// ClearResultCaches drops every cached query result and the per-tab
// column state derived from it. Called by the settings service when the
// cache is toggled.
func (a *App) ClearResultCaches() {
	a.cache.Clear()
	a.mu.Lock()
	for _, tab := range a.tabs {
		tab.colState = query.ColumnState{}
		tab.view = nil
	}
	a.mu.Unlock()
	a.Log("info", "Cleared all cached query results")
}

// UpdateCacheSize re-reads the cache size limit from settings and
// applies it, evicting as needed.
func (a *App) UpdateCacheSize() {
	s := a.settings.Get()
	a.cache.UpdateMaxSize(int64(s.CacheSizeLimitMB) * 1024 * 1024)
}

// CacheStats returns hit, miss and usage counters for the status line.
func (a *App) CacheStats() cache.Stats {
	return a.cache.GetStats()
}

// OpenPath loads a file or directory into a new tab and makes it
// active. Directory detection follows the loader: anything that stats
// as a directory is loaded via its pattern, everything else as a single
// file.
func (a *App) OpenPath(path string, opts fileloader.Options) (*Tab, error) {
	res, err := fileloader.Load(path, opts)
	if err != nil {
		a.Log("error", fmt.Sprintf("Failed to load %s: %v", path, err))
		return nil, err
	}

	fingerprint, err := a.fingerprintFor(path, res)
	if err != nil {
		// A tab without a fingerprint still works; it just cannot cache
		// or match workspace entries.
		a.Log("warn", fmt.Sprintf("Failed to fingerprint %s: %v", path, err))
		fingerprint = ""
	}

	tab := newTab(path, opts, res, fingerprint)

	a.mu.Lock()
	a.tabs[tab.ID] = tab
	a.order = append(a.order, tab.ID)
	a.activeID = tab.ID
	a.mu.Unlock()

	a.Log("info", fmt.Sprintf("Opened %s (%d rows, %d columns)",
		path, len(res.Table.Rows), len(res.Table.Columns)))
	return tab, nil
}

func (a *App) fingerprintFor(path string, res *fileloader.Result) (string, error) {
	if len(res.SourceFiles) > 0 {
		return CalculateDirectoryHash(path, res.SourceFiles)
	}
	return CalculateFileHash(path)
}

// Reload re-reads the tab's source from disk, refreshes its
// fingerprint and invalidates cached results for the old one. Query,
// sort and marks are kept; marks may point past the end if the file
// shrank, which the grid simply does not show.
func (a *App) Reload(tabID string) (*Tab, error) {
	tab := a.GetTab(tabID)
	if tab == nil {
		return nil, fmt.Errorf("tab not found: %s", tabID)
	}

	res, err := fileloader.Load(tab.Path, tab.Options)
	if err != nil {
		a.Log("error", fmt.Sprintf("Failed to reload %s: %v", tab.Path, err))
		return nil, err
	}
	fingerprint, err := a.fingerprintFor(tab.Path, res)
	if err != nil {
		fingerprint = ""
	}

	a.mu.Lock()
	old := tab.Fingerprint
	tab.Table = res.Table
	tab.Warning = res.Warning
	tab.SourceFiles = res.SourceFiles
	tab.Fingerprint = fingerprint
	tab.engine = query.Engine{}
	tab.colState = query.ColumnState{}
	tab.view = nil
	a.mu.Unlock()

	if old != "" && old != fingerprint {
		a.cache.InvalidateTab(old)
	}
	a.Log("info", fmt.Sprintf("Reloaded %s (%d rows)", tab.Path, len(res.Table.Rows)))
	return tab, nil
}
