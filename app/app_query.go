package app

import (
	"fmt"

	"gridline/app/cache"
	"gridline/app/query"
	"gridline/app/stats"
)

// RunQuery filters and sorts the tab's table and records the result as
// the tab's current view. Results are cached per fingerprint, load
// options, query text and sort order; a tab without a fingerprint skips
// the cache entirely.
func (a *App) RunQuery(tabID, queryText string) (*query.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tab, ok := a.tabs[tabID]
	if !ok {
		return nil, fmt.Errorf("tab not found: %s", tabID)
	}
	if tab.Table == nil {
		return nil, fmt.Errorf("tab has no data: %s", tab.Path)
	}

	sortSpec := query.FormatSortKeys(tab.SortKeys)
	useCache := a.settings.Get().EnableQueryCache && tab.Fingerprint != ""

	var key string
	if useCache {
		key = cache.Key(tab.Fingerprint, tab.Options.Key(), queryText, sortSpec)
		if res, hit := a.cache.Get(key); hit {
			tab.Query = queryText
			tab.colState = res.State
			tab.view = res
			return res, nil
		}
	}

	res := tab.engine.Filter(tab.Table, queryText, tab.colState)
	if len(tab.SortKeys) > 0 {
		res.Rows = query.Sort(res.Rows, tab.SortKeys)
	}

	if useCache {
		a.cache.Store(key, res)
	}

	tab.Query = queryText
	tab.colState = res.State
	tab.view = res
	return res, nil
}

// ColumnProfile profiles one column over the rows of the tab's current
// view, or the whole table before any query has run.
func (a *App) ColumnProfile(tabID, column string) (*stats.Profile, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	tab, ok := a.tabs[tabID]
	if !ok {
		return nil, fmt.Errorf("tab not found: %s", tabID)
	}
	if tab.Table == nil {
		return nil, fmt.Errorf("tab has no data: %s", tab.Path)
	}
	rows := tab.Table.Rows
	if tab.view != nil {
		rows = tab.view.Rows
	}
	return stats.ProfileColumn(rows, column), nil
}
