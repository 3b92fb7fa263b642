package query

import (
	"regexp"
	"strings"

	"gridline/app/table"
)

// Index holds precomputed lowercase projections of a table: one string
// per present cell and one space-joined concatenation per row. Every
// filter predicate runs against these projections, so repeated queries
// never re-render cell values.
type Index struct {
	vals    [][]string
	present [][]bool
	rows    []string
}

// NewIndex builds the index for a table. Cell strings follow the
// table's column order; absent cells carry no entry and contribute
// nothing to the row concatenation.
func NewIndex(tbl *table.Table) *Index {
	idx := &Index{
		vals:    make([][]string, len(tbl.Rows)),
		present: make([][]bool, len(tbl.Rows)),
		rows:    make([]string, len(tbl.Rows)),
	}
	var sb strings.Builder
	for r, row := range tbl.Rows {
		vals := make([]string, len(tbl.Columns))
		present := make([]bool, len(tbl.Columns))
		sb.Reset()
		for c, col := range tbl.Columns {
			cell := row.Cell(col)
			if cell.IsAbsent() {
				continue
			}
			s := strings.ToLower(cell.String())
			vals[c] = s
			present[c] = true
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(s)
		}
		idx.vals[r] = vals
		idx.present[r] = present
		idx.rows[r] = sb.String()
	}
	return idx
}

// Len returns the number of indexed rows.
func (idx *Index) Len() int { return len(idx.rows) }

// Cell returns the lowercased cell text at (row, col) and whether the
// cell is present.
func (idx *Index) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(idx.vals) || col < 0 || col >= len(idx.vals[row]) {
		return "", false
	}
	return idx.vals[row][col], idx.present[row][col]
}

// RowText returns the lowercased space-joined concatenation of the
// row's present cells.
func (idx *Index) RowText(row int) string {
	if row < 0 || row >= len(idx.rows) {
		return ""
	}
	return idx.rows[row]
}

// anyCellEquals reports whether some present cell in the row equals val.
func (idx *Index) anyCellEquals(row int, val string) bool {
	if row < 0 || row >= len(idx.vals) {
		return false
	}
	for c, v := range idx.vals[row] {
		if idx.present[row][c] && v == val {
			return true
		}
	}
	return false
}

// anyCellMatches reports whether some present cell in the row matches
// the pattern in full.
func (idx *Index) anyCellMatches(row int, re *regexp.Regexp) bool {
	if row < 0 || row >= len(idx.vals) {
		return false
	}
	for c, v := range idx.vals[row] {
		if idx.present[row][c] && re.MatchString(v) {
			return true
		}
	}
	return false
}
