package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gridline/app/query"
	"gridline/app/table"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 40
	// widthSampleRows caps how many rows feed the column width
	// calculation; scanning every row of a large load buys nothing
	// visible.
	widthSampleRows = 500
)

var (
	gridHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("105")).
			Background(lipgloss.Color("236"))
	gridHeaderSelectedStyle = gridHeaderStyle.
				Foreground(lipgloss.Color("229")).
				Underline(true)
	gridSeparatorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
	gridSelectedStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("25")).
				Foreground(lipgloss.Color("15")).
				Bold(true)
	gridMarkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
	gridStatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

// Grid displays a query result with virtual scrolling in both
// directions. Rows are addressed by their position in the view;
// marks are looked up by the row's original index.
type Grid struct {
	Width  int
	Height int

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	LeftCol     int
	SelectedCol int

	res      *query.Result
	marks    map[int]bool
	sortKeys []query.SortKey
	colWidths []int
}

// NewGrid creates an empty grid.
func NewGrid() *Grid {
	return &Grid{}
}

// SetResult replaces the grid's data and clamps the selection into the
// new bounds. Marks and sort keys only affect rendering.
func (g *Grid) SetResult(res *query.Result, marks map[int]bool, sortKeys []query.SortKey) {
	g.res = res
	g.marks = marks
	g.sortKeys = sortKeys
	g.calculateColumnWidths()

	if g.SelectedRow >= g.rowCount() {
		g.SelectedRow = g.rowCount() - 1
	}
	if g.SelectedRow < 0 {
		g.SelectedRow = 0
	}
	if g.TopRow > g.SelectedRow {
		g.TopRow = g.SelectedRow
	}
	if g.SelectedCol >= g.colCount() {
		g.SelectedCol = g.colCount() - 1
	}
	if g.SelectedCol < 0 {
		g.SelectedCol = 0
	}
	if g.LeftCol > g.SelectedCol {
		g.LeftCol = g.SelectedCol
	}
}

func (g *Grid) rowCount() int {
	if g.res == nil {
		return 0
	}
	return len(g.res.Rows)
}

func (g *Grid) colCount() int {
	if g.res == nil {
		return 0
	}
	return len(g.res.Columns)
}

// SelectedColumn returns the name of the selected column, empty when
// the grid has no data.
func (g *Grid) SelectedColumn() string {
	if g.res == nil || g.SelectedCol >= len(g.res.Columns) {
		return ""
	}
	return g.res.Columns[g.SelectedCol]
}

// SelectedRowData returns the selected row, nil when the view is empty.
func (g *Grid) SelectedRowData() *table.Row {
	if g.res == nil || g.SelectedRow >= len(g.res.Rows) {
		return nil
	}
	return g.res.Rows[g.SelectedRow]
}

// calculateColumnWidths sizes each visible column from its header and a
// sample of row values, clamped to [minColumnWidth, maxColumnWidth].
func (g *Grid) calculateColumnWidths() {
	if g.res == nil {
		g.colWidths = nil
		return
	}
	cols := g.res.Columns
	g.colWidths = make([]int, len(cols))
	for i, col := range cols {
		g.colWidths[i] = len(col) + 2 // room for a sort indicator
	}
	sample := g.res.Rows
	if len(sample) > widthSampleRows {
		sample = sample[:widthSampleRows]
	}
	for _, row := range sample {
		for i, col := range cols {
			if n := len(row.Cell(col).String()); n > g.colWidths[i] {
				g.colWidths[i] = n
			}
		}
	}
	for i := range g.colWidths {
		if g.colWidths[i] > maxColumnWidth {
			g.colWidths[i] = maxColumnWidth
		}
		if g.colWidths[i] < minColumnWidth {
			g.colWidths[i] = minColumnWidth
		}
	}
}

// visibleCols returns the window of column positions that fit the grid
// width starting at LeftCol. At least one column is always shown.
func (g *Grid) visibleCols() []int {
	if g.colCount() == 0 {
		return nil
	}
	var out []int
	used := 2 // leading and trailing space
	for i := g.LeftCol; i < g.colCount(); i++ {
		w := g.colWidths[i] + 3 // " │ " between columns
		if len(out) > 0 && used+w > g.Width {
			break
		}
		out = append(out, i)
		used += w
	}
	return out
}

// View renders the grid.
func (g *Grid) View() string {
	if g.res == nil || g.colCount() == 0 {
		return gridStatusStyle.Render(" No data")
	}

	var b strings.Builder
	cols := g.visibleCols()

	b.WriteString(g.renderHeader(cols))
	b.WriteString("\n")
	b.WriteString(g.renderSeparator(cols))
	b.WriteString("\n")

	g.VisibleRows = g.Height - 3 // header + separator + status
	if g.VisibleRows < 1 {
		g.VisibleRows = 1
	}

	endRow := g.TopRow + g.VisibleRows
	if endRow > g.rowCount() {
		endRow = g.rowCount()
	}
	for i := g.TopRow; i < endRow; i++ {
		b.WriteString(g.renderRow(i, cols))
		b.WriteString("\n")
	}
	for i := endRow - g.TopRow; i < g.VisibleRows; i++ {
		b.WriteString("\n")
	}

	b.WriteString(g.renderStatus())
	return b.String()
}

func (g *Grid) renderHeader(cols []int) string {
	sep := gridHeaderStyle.Render(" │ ")
	var parts []string
	for _, c := range cols {
		name := g.res.Columns[c]
		if mark := g.sortMarker(name); mark != "" {
			name += " " + mark
		}
		cell := pad(name, g.colWidths[c])
		if c == g.SelectedCol {
			parts = append(parts, gridHeaderSelectedStyle.Render(cell))
		} else {
			parts = append(parts, gridHeaderStyle.Render(cell))
		}
	}
	return gridHeaderStyle.Render(" ") + strings.Join(parts, sep) + gridHeaderStyle.Render(" ")
}

// sortMarker returns the direction arrow when the column is a sort key.
func (g *Grid) sortMarker(column string) string {
	for _, k := range g.sortKeys {
		if k.Column == column {
			if k.Descending {
				return "↓"
			}
			return "↑"
		}
	}
	return ""
}

func (g *Grid) renderSeparator(cols []int) string {
	var parts []string
	for _, c := range cols {
		parts = append(parts, strings.Repeat("─", g.colWidths[c]))
	}
	return gridSeparatorStyle.Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (g *Grid) renderRow(pos int, cols []int) string {
	row := g.res.Rows[pos]
	var parts []string
	for _, c := range cols {
		parts = append(parts, pad(row.Cell(g.res.Columns[c]).String(), g.colWidths[c]))
	}
	line := " " + strings.Join(parts, " │ ") + " "

	switch {
	case pos == g.SelectedRow:
		return gridSelectedStyle.Render(line)
	case g.marks[row.Index]:
		return gridMarkedStyle.Render(line)
	default:
		return line
	}
}

func (g *Grid) renderStatus() string {
	total := len(g.res.Table.Rows)
	shown := g.rowCount()
	endRow := g.TopRow + g.VisibleRows
	if endRow > shown {
		endRow = shown
	}
	start := 0
	if shown > 0 {
		start = g.TopRow + 1
	}

	status := fmt.Sprintf(" %d-%d of %d rows", start, endRow, shown)
	if shown < total {
		status += fmt.Sprintf(" (filtered from %d)", total)
	}
	if n := len(g.marks); n > 0 {
		status += fmt.Sprintf(" · %d marked", n)
	}
	return gridStatusStyle.Render(status)
}

func pad(s string, width int) string {
	if len(s) > width {
		return s[:width-3] + "..."
	}
	return s + strings.Repeat(" ", width-len(s))
}

// MoveSelection moves the row selection and scrolls the window along.
func (g *Grid) MoveSelection(delta int) {
	g.SelectedRow += delta
	if g.SelectedRow < 0 {
		g.SelectedRow = 0
	}
	if g.SelectedRow >= g.rowCount() {
		g.SelectedRow = g.rowCount() - 1
	}
	if g.SelectedRow < 0 {
		g.SelectedRow = 0
	}
	g.scrollToSelection()
}

// SelectRow jumps the selection to a view position.
func (g *Grid) SelectRow(pos int) {
	g.SelectedRow = pos
	if g.SelectedRow < 0 {
		g.SelectedRow = 0
	}
	if g.SelectedRow >= g.rowCount() {
		g.SelectedRow = g.rowCount() - 1
	}
	g.scrollToSelection()
}

func (g *Grid) scrollToSelection() {
	if g.VisibleRows <= 0 {
		g.VisibleRows = 1
	}
	if g.SelectedRow < g.TopRow {
		g.TopRow = g.SelectedRow
	}
	if g.SelectedRow >= g.TopRow+g.VisibleRows {
		g.TopRow = g.SelectedRow - g.VisibleRows + 1
	}
	if g.TopRow < 0 {
		g.TopRow = 0
	}
}

// PageUp moves one window up.
func (g *Grid) PageUp() {
	g.SelectedRow -= g.VisibleRows
	if g.SelectedRow < 0 {
		g.SelectedRow = 0
	}
	g.TopRow = g.SelectedRow
}

// PageDown moves one window down.
func (g *Grid) PageDown() {
	g.SelectedRow += g.VisibleRows
	if g.SelectedRow >= g.rowCount() {
		g.SelectedRow = g.rowCount() - 1
	}
	if g.SelectedRow < 0 {
		g.SelectedRow = 0
	}
	g.TopRow = g.SelectedRow
	if g.TopRow+g.VisibleRows > g.rowCount() {
		g.TopRow = g.rowCount() - g.VisibleRows
		if g.TopRow < 0 {
			g.TopRow = 0
		}
	}
}

// Home jumps to the first row, End to the last.
func (g *Grid) Home() {
	g.SelectedRow = 0
	g.TopRow = 0
}

func (g *Grid) End() {
	g.SelectRow(g.rowCount() - 1)
}

// MoveColumn moves the column selection and scrolls horizontally so the
// selected column stays visible.
func (g *Grid) MoveColumn(delta int) {
	g.SelectedCol += delta
	if g.SelectedCol < 0 {
		g.SelectedCol = 0
	}
	if g.SelectedCol >= g.colCount() {
		g.SelectedCol = g.colCount() - 1
	}
	if g.SelectedCol < 0 {
		g.SelectedCol = 0
	}
	if g.SelectedCol < g.LeftCol {
		g.LeftCol = g.SelectedCol
	}
	for g.LeftCol < g.SelectedCol && !g.colVisible(g.SelectedCol) {
		g.LeftCol++
	}
}

func (g *Grid) colVisible(col int) bool {
	for _, c := range g.visibleCols() {
		if c == col {
			return true
		}
	}
	return false
}
