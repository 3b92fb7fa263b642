package app

import (
	"fmt"

	"gridline/app/query"
	"gridline/app/workspace"
)

// CreateWorkspace starts a new workspace file and opens it.
func (a *App) CreateWorkspace(path string) error {
	if err := a.workspace.Create(path); err != nil {
		a.Log("error", fmt.Sprintf("Failed to create workspace: %v", err))
		return err
	}
	a.Log("info", fmt.Sprintf("Created workspace %s", a.workspace.Path()))
	return nil
}

// OpenWorkspace opens a workspace file and restores its tabs. Each
// entry is loaded with its recorded options; entries whose files no
// longer load are skipped with a log line. A fingerprint mismatch
// still restores the tab but flags it, since marks recorded against
// the old content may no longer line up.
func (a *App) OpenWorkspace(path string) error {
	if err := a.workspace.Open(path); err != nil {
		return err
	}

	files := a.workspace.Files()
	for _, f := range files {
		tab, err := a.OpenPath(f.Path, f.Options)
		if err != nil {
			a.Log("warn", fmt.Sprintf("Workspace entry %s skipped: %v", f.Path, err))
			continue
		}

		a.mu.Lock()
		tab.Query = f.Query
		tab.SortKeys = query.ParseSortKeys(f.Sort)
		tab.Description = f.Description
		for _, idx := range f.Marks {
			tab.Marks[idx] = true
		}
		if f.Fingerprint != "" && tab.Fingerprint != "" && f.Fingerprint != tab.Fingerprint {
			tab.Warning = "file changed since the workspace was saved"
			a.Log("warn", fmt.Sprintf("Fingerprint mismatch for %s; marks may be stale", f.Path))
		}
		a.mu.Unlock()
	}

	a.Log("info", fmt.Sprintf("Opened workspace %s (%d files)", a.workspace.Name(), len(files)))
	return nil
}

// SaveWorkspace snapshots the open tabs into the open workspace file.
// Entries for tabs that have been closed are dropped. Without an open
// workspace it does nothing and reports false.
func (a *App) SaveWorkspace() (bool, error) {
	if !a.workspace.IsOpen() {
		return false, nil
	}

	a.mu.RLock()
	files := make([]workspace.File, 0, len(a.order))
	for _, id := range a.order {
		tab := a.tabs[id]
		files = append(files, workspace.File{
			Path:        tab.Path,
			Fingerprint: tab.Fingerprint,
			Options:     tab.Options,
			Query:       tab.Query,
			Sort:        query.FormatSortKeys(tab.SortKeys),
			Marks:       tab.MarkedIndices(),
			Description: tab.Description,
		})
	}
	a.mu.RUnlock()

	current := make(map[string]bool, len(files))
	for _, f := range files {
		current[f.Path+"::"+f.Options.Key()] = true
	}
	for _, f := range a.workspace.Files() {
		if !current[f.Path+"::"+f.Options.Key()] {
			a.workspace.Remove(f.Path, f.Options)
		}
	}
	for _, f := range files {
		a.workspace.Put(f)
	}

	if err := a.workspace.Save(); err != nil {
		a.Log("error", fmt.Sprintf("Failed to save workspace: %v", err))
		return false, err
	}
	a.Log("info", fmt.Sprintf("Saved workspace %s (%d files)", a.workspace.Name(), len(files)))
	return true, nil
}

// CloseWorkspace forgets the open workspace without saving. Tabs stay
// open.
func (a *App) CloseWorkspace() {
	a.workspace.Close()
}

// WorkspaceOpen reports whether a workspace is open.
func (a *App) WorkspaceOpen() bool {
	return a.workspace.IsOpen()
}

// WorkspaceName returns the open workspace's display name, empty when
// none is open.
func (a *App) WorkspaceName() string {
	if !a.workspace.IsOpen() {
		return ""
	}
	return a.workspace.Name()
}
