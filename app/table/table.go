package table

import (
	"strconv"
)

// CellKind identifies which variant a Cell holds.
type CellKind int

const (
	KindAbsent CellKind = iota
	KindText
	KindNumber
	KindBool
)

// Cell is a single grid value: text, number, boolean, or absent.
// The zero value is an absent cell.
type Cell struct {
	Kind CellKind
	Text string
	Num  float64
	Bool bool
}

// TextCell returns a text cell.
func TextCell(s string) Cell { return Cell{Kind: KindText, Text: s} }

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell { return Cell{Kind: KindNumber, Num: v} }

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell { return Cell{Kind: KindBool, Bool: b} }

// IsAbsent reports whether the cell holds no value.
func (c Cell) IsAbsent() bool { return c.Kind == KindAbsent }

// Number returns the numeric payload of a Number cell. Textual numbers
// do not qualify; they go through parsing at the call site.
func (c Cell) Number() (float64, bool) {
	if c.Kind == KindNumber {
		return c.Num, true
	}
	return 0, false
}

// String renders the cell for display and matching. Numbers use the
// shortest decimal form that round-trips, booleans render as
// "true"/"false", absent cells render as the empty string.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// Row is one grid row: cells keyed by column name. A missing key is an
// absent cell. Index is the 0-based position in the source table and
// stays stable across filtering and sorting, so it can identify the row
// in marks and workspace state.
type Row struct {
	Index int
	Cells map[string]Cell
}

// Cell returns the value for the named column, absent if missing.
func (r *Row) Cell(column string) Cell {
	if r == nil || r.Cells == nil {
		return Cell{}
	}
	return r.Cells[column]
}

// Table is an ordered sequence of rows plus the ordered column
// universe. Columns defines the natural display order; every per-row
// cell iteration in the engine follows it, which keeps derived strings
// (search index, clipboard export) deterministic.
type Table struct {
	Columns []string
	Rows    []*Row
}

// New returns an empty table with the given column order.
func New(columns []string) *Table {
	return &Table{Columns: columns}
}

// FromRecords builds a table of text cells from a header and string
// records. Short records leave their trailing columns absent; fields
// beyond the header are dropped.
func FromRecords(header []string, records [][]string) *Table {
	t := New(header)
	for _, rec := range records {
		t.AppendRecord(rec)
	}
	return t
}

// AppendRecord adds one row of text cells aligned to Columns.
func (t *Table) AppendRecord(record []string) {
	cells := make(map[string]Cell, len(record))
	for i, col := range t.Columns {
		if i >= len(record) {
			break
		}
		cells[col] = TextCell(record[i])
	}
	t.Rows = append(t.Rows, &Row{Index: len(t.Rows), Cells: cells})
}

// AppendCells adds one row of typed cells. Callers that grow the column
// universe as they go (the JSON loader) must update Columns themselves;
// cells under unknown columns simply stay invisible until the column
// exists.
func (t *Table) AppendCells(cells map[string]Cell) {
	t.Rows = append(t.Rows, &Row{Index: len(t.Rows), Cells: cells})
}

// ColumnIndex returns the position of a column in Columns, -1 if the
// column does not exist.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
