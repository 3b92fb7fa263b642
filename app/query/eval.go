package query

import (
	"strings"

	"gridline/app/table"
)

// groupContext carries the per-call resolved state for one group: the
// concrete column positions each column-scoped filter addresses in the
// current table.
type groupContext struct {
	tbl       *table.Table
	idx       *Index
	valueCols [][]int
	cmpCols   [][]int
}

// newGroupContexts resolves every column-scoped filter in every group
// against the table's headers once, ahead of the per-row loop.
func newGroupContexts(tbl *table.Table, idx *Index, groups []*FilterGroup) []*groupContext {
	lowered := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		lowered[i] = strings.ToLower(c)
	}
	ctxs := make([]*groupContext, len(groups))
	for gi, g := range groups {
		ctx := &groupContext{tbl: tbl, idx: idx}
		ctx.valueCols = make([][]int, len(g.Values))
		for i, f := range g.Values {
			ctx.valueCols[i] = resolveRule(f.Column, lowered)
		}
		ctx.cmpCols = make([][]int, len(g.Compares))
		for i, f := range g.Compares {
			ctx.cmpCols[i] = resolveRule(f.Column, lowered)
		}
		ctxs[gi] = ctx
	}
	return ctxs
}

// resolveRule returns the positions of all columns the rule matches.
func resolveRule(r ColumnRule, lowered []string) []int {
	var out []int
	for i, h := range lowered {
		if r.Matches(h) {
			out = append(out, i)
		}
	}
	return out
}

// matchAny reports whether the row matches at least one group.
func matchAny(groups []*FilterGroup, ctxs []*groupContext, row int) bool {
	for i, g := range groups {
		if groupMatches(g, ctxs[i], row) {
			return true
		}
	}
	return false
}

// groupMatches evaluates one group against one row. Every filter in the
// group must hold. A filter whose column rule matches nothing in this
// table is a no-op and never rejects the row.
func groupMatches(g *FilterGroup, ctx *groupContext, row int) bool {
	idx := ctx.idx

	for i := range g.Values {
		f := &g.Values[i]
		cols := ctx.valueCols[i]
		if len(cols) == 0 {
			continue
		}
		found := false
		for _, c := range cols {
			val, ok := idx.Cell(row, c)
			if ok && valueMatches(f, val) {
				found = true
				break
			}
		}
		if found == f.Exclude {
			return false
		}
	}

	for i := range g.Compares {
		f := &g.Compares[i]
		cols := ctx.cmpCols[i]
		if len(cols) == 0 {
			continue
		}
		matched := false
		for _, c := range cols {
			n, ok := candidateNumber(ctx, row, c)
			if !ok {
				continue
			}
			if (f.Op == '>' && n > f.Threshold) || (f.Op == '<' && n < f.Threshold) {
				matched = true
				break
			}
		}
		if matched == f.Exclude {
			return false
		}
	}

	rowText := idx.RowText(row)
	for _, f := range g.Texts {
		if strings.Contains(rowText, f.Value) == f.Exclude {
			return false
		}
	}
	for _, f := range g.Exacts {
		if idx.anyCellEquals(row, f.Value) == f.Exclude {
			return false
		}
	}
	for _, f := range g.Globs {
		if f.re == nil {
			continue
		}
		if idx.anyCellMatches(row, f.re) == f.Exclude {
			return false
		}
	}
	return true
}

// valueMatches applies a value filter to one cell string. Exact beats
// glob beats substring.
func valueMatches(f *ValueFilter, cell string) bool {
	switch {
	case f.Exact:
		return cell == f.Value
	case f.Glob && f.re != nil:
		return f.re.MatchString(cell)
	default:
		return strings.Contains(cell, f.Value)
	}
}

// candidateNumber extracts the numeric value of a cell for a
// comparison. Typed number cells are used directly; everything else
// goes through the tolerant parser.
func candidateNumber(ctx *groupContext, row, col int) (float64, bool) {
	cell := ctx.tbl.Rows[row].Cell(ctx.tbl.Columns[col])
	if n, ok := cell.Number(); ok {
		return n, true
	}
	s, present := ctx.idx.Cell(row, col)
	if !present {
		return 0, false
	}
	return ParseNumber(s)
}
