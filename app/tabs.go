package app

import (
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"gridline/app/fileloader"
	"gridline/app/query"
	"gridline/app/table"
)

// Tab is one open source, a file or a directory, and everything the
// user has done to it: the loaded table, the active query, the sort
// order and the marked rows.
type Tab struct {
	ID          string
	Path        string
	Fingerprint string
	Options     fileloader.Options
	Table       *table.Table
	// Warning carries a partial-load note, or a changed-on-disk note
	// when the tab was restored from a workspace.
	Warning string
	// SourceFiles lists the files behind a directory load, in load
	// order. Empty for single-file tabs.
	SourceFiles []string

	Query       string
	SortKeys    []query.SortKey
	Marks       map[int]bool
	Description string

	engine   query.Engine
	colState query.ColumnState
	view     *query.Result
}

func newTab(path string, opts fileloader.Options, res *fileloader.Result, fingerprint string) *Tab {
	return &Tab{
		ID:          uuid.New().String(),
		Path:        path,
		Fingerprint: fingerprint,
		Options:     opts,
		Table:       res.Table,
		Warning:     res.Warning,
		SourceFiles: res.SourceFiles,
		Marks:       make(map[int]bool),
	}
}

// Name returns the tab's display name, the base name of its path.
func (t *Tab) Name() string {
	return filepath.Base(t.Path)
}

// View returns the most recent query result for the tab, nil before the
// first query runs.
func (t *Tab) View() *query.Result {
	return t.view
}

// MarkedIndices returns the marked original row indices in ascending
// order.
func (t *Tab) MarkedIndices() []int {
	out := make([]int, 0, len(t.Marks))
	for idx := range t.Marks {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// GetTab returns the tab with the given ID, nil if it does not exist.
func (a *App) GetTab(tabID string) *Tab {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tabs[tabID]
}

// Tabs returns the open tabs in opening order.
func (a *App) Tabs() []*Tab {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*Tab, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.tabs[id])
	}
	return out
}

// ActiveTab returns the active tab, nil when no tab is open.
func (a *App) ActiveTab() *Tab {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tabs[a.activeID]
}

// SetActiveTab makes the tab with the given ID active and reports
// whether it exists.
func (a *App) SetActiveTab(tabID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.tabs[tabID]; !ok {
		return false
	}
	a.activeID = tabID
	return true
}

// NextTab activates the tab after the active one, wrapping around, and
// returns it.
func (a *App) NextTab() *Tab {
	return a.stepTab(1)
}

// PrevTab activates the tab before the active one, wrapping around, and
// returns it.
func (a *App) PrevTab() *Tab {
	return a.stepTab(-1)
}

func (a *App) stepTab(delta int) *Tab {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.order) == 0 {
		return nil
	}
	pos := 0
	for i, id := range a.order {
		if id == a.activeID {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(a.order)) % len(a.order)
	a.activeID = a.order[pos]
	return a.tabs[a.activeID]
}

// CloseTab removes a tab. Cached results for its file are invalidated
// unless another tab still shows the same data. The next tab in order
// becomes active when the active tab closes.
func (a *App) CloseTab(tabID string) {
	a.mu.Lock()
	tab, ok := a.tabs[tabID]
	if !ok {
		a.mu.Unlock()
		return
	}
	delete(a.tabs, tabID)
	for i, id := range a.order {
		if id == tabID {
			a.order = append(a.order[:i], a.order[i+1:]...)
			if a.activeID == tabID {
				if len(a.order) == 0 {
					a.activeID = ""
				} else {
					a.activeID = a.order[i%len(a.order)]
				}
			}
			break
		}
	}
	shared := false
	for _, other := range a.tabs {
		if other.Fingerprint == tab.Fingerprint {
			shared = true
			break
		}
	}
	a.mu.Unlock()

	if !shared {
		a.cache.InvalidateTab(tab.Fingerprint)
	}
}

// CycleSort advances the sort state of one column: unsorted becomes the
// primary ascending key, ascending flips to descending in place, and
// descending drops the key. A new primary key pushes the oldest key out
// beyond three.
func (a *App) CycleSort(tabID, column string) []query.SortKey {
	a.mu.Lock()
	defer a.mu.Unlock()
	tab, ok := a.tabs[tabID]
	if !ok {
		return nil
	}
	for i, k := range tab.SortKeys {
		if k.Column != column {
			continue
		}
		if !k.Descending {
			tab.SortKeys[i].Descending = true
		} else {
			tab.SortKeys = append(tab.SortKeys[:i], tab.SortKeys[i+1:]...)
		}
		return tab.SortKeys
	}
	keys := append([]query.SortKey{{Column: column}}, tab.SortKeys...)
	if len(keys) > 3 {
		keys = keys[:3]
	}
	tab.SortKeys = keys
	return tab.SortKeys
}

// ClearSort removes every sort key from the tab.
func (a *App) ClearSort(tabID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if tab, ok := a.tabs[tabID]; ok {
		tab.SortKeys = nil
	}
}

// ToggleMark flips the mark on a row, addressed by its original index
// so the mark survives filter and sort changes. Reports the new state.
func (a *App) ToggleMark(tabID string, rowIndex int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	tab, ok := a.tabs[tabID]
	if !ok {
		return false
	}
	if tab.Marks[rowIndex] {
		delete(tab.Marks, rowIndex)
		return false
	}
	tab.Marks[rowIndex] = true
	return true
}

// ClearMarks removes every mark from the tab. The map is emptied in
// place so views holding a reference see the change.
func (a *App) ClearMarks(tabID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if tab, ok := a.tabs[tabID]; ok {
		for idx := range tab.Marks {
			delete(tab.Marks, idx)
		}
	}
}

// SetDescription stores a free-form note on the tab, persisted with the
// workspace.
func (a *App) SetDescription(tabID, description string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if tab, ok := a.tabs[tabID]; ok {
		tab.Description = description
	}
}
