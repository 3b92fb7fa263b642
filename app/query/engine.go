package query

import (
	"gridline/app/table"
)

// Engine owns the search index for one table and runs queries against
// it. One engine serves one consumer; there is no internal locking.
type Engine struct {
	idx      *Index
	idxTable *table.Table
}

// Result is one filter pass over a table.
type Result struct {
	// Table is the table the filter ran against.
	Table *table.Table
	// Rows are the matching rows in their original order.
	Rows []*table.Row
	// Columns are the visible columns in display order.
	Columns []string
	// DisplayColumns maps each visible column to its position in
	// Table.Columns.
	DisplayColumns []int
	// State feeds the next Filter call so an unchanged column layout is
	// not resolved again.
	State ColumnState
}

// BuildIndex (re)builds the search index for the table and makes it the
// engine's current table.
func (e *Engine) BuildIndex(tbl *table.Table) *Index {
	e.idx = NewIndex(tbl)
	e.idxTable = tbl
	return e.idx
}

// Filter parses the query and applies it to the table. An empty query
// matches every row and shows every column in natural order. A table
// the engine has not seen yet is indexed first and any previous column
// state is discarded, since it described the old table.
func (e *Engine) Filter(tbl *table.Table, queryText string, prev ColumnState) *Result {
	if tbl == nil {
		return &Result{}
	}
	if e.idx == nil || e.idxTable != tbl {
		e.BuildIndex(tbl)
		prev = ColumnState{}
	}

	groups := ParseQuery(queryText)

	sig := columnSignature(groups)
	var cols []string
	if prev.Columns != nil && prev.Signature == sig {
		cols = prev.Columns
	} else {
		cols = resolveColumns(tbl.Columns, groups)
	}

	rows := tbl.Rows
	if len(groups) > 0 {
		ctxs := newGroupContexts(tbl, e.idx, groups)
		rows = make([]*table.Row, 0, len(tbl.Rows))
		for pos, row := range tbl.Rows {
			if matchAny(groups, ctxs, pos) {
				rows = append(rows, row)
			}
		}
	}

	colIdx := make(map[string]int, len(tbl.Columns))
	for i, c := range tbl.Columns {
		colIdx[c] = i
	}
	disp := make([]int, 0, len(cols))
	for _, c := range cols {
		if i, ok := colIdx[c]; ok {
			disp = append(disp, i)
		}
	}

	return &Result{
		Table:          tbl,
		Rows:           rows,
		Columns:        cols,
		DisplayColumns: disp,
		State:          ColumnState{Signature: sig, Columns: cols},
	}
}
