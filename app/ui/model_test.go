package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gridline/app"
	"gridline/app/settings"
)

func newTestModel(t *testing.T, files ...string) (*Model, *app.App) {
	t.Helper()
	st := settings.NewServiceAt(filepath.Join(t.TempDir(), "gridline.yml"))
	a := app.New(st, nil)
	dir := t.TempDir()
	for i, content := range files {
		path := filepath.Join(dir, fmt.Sprintf("data%d.csv", i))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := a.OpenPath(path, a.DefaultLoadOptions()); err != nil {
			t.Fatalf("OpenPath: %v", err)
		}
	}
	m := New(a)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, a
}

// drain runs commands synchronously, feeding each produced message back
// into the model until the chain settles.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+w":
		return tea.KeyMsg{Type: tea.KeyCtrlW}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(key(k))
		drain(t, m, cmd)
	}
}

const modelCSV = "name,width\ndoor,82\nwindow,40\nwall,260\n"

func TestModelShowsDataAfterQuery(t *testing.T) {
	m, a := newTestModel(t, modelCSV)
	tab := a.ActiveTab()
	drain(t, m, m.runQueryCmd(tab.ID, ""))

	view := m.View()
	for _, want := range []string{"name", "width", "door", "window", "wall"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.Contains(view, "1-3 of 3 rows") {
		t.Errorf("view missing row count, got:\n%s", view)
	}
}

func TestModelQueryFlow(t *testing.T) {
	m, a := newTestModel(t, modelCSV)
	tab := a.ActiveTab()
	drain(t, m, m.runQueryCmd(tab.ID, ""))

	press(t, m, "e")
	if m.mode != modeQuery {
		t.Fatalf("mode = %d, want query mode", m.mode)
	}
	press(t, m, "w", "enter")

	if m.mode != modeNormal {
		t.Errorf("mode after submit = %d, want normal", m.mode)
	}
	if tab.Query != "w" {
		t.Errorf("tab query = %q, want %q", tab.Query, "w")
	}
	if got := m.grid.rowCount(); got != 2 {
		t.Errorf("visible rows = %d, want 2", got)
	}
}

func TestModelQueryCancelRestoresText(t *testing.T) {
	m, a := newTestModel(t, modelCSV)
	tab := a.ActiveTab()
	drain(t, m, m.runQueryCmd(tab.ID, ""))

	press(t, m, "e", "w", "enter")
	press(t, m, "e", "x", "esc")

	if m.mode != modeNormal {
		t.Errorf("mode after cancel = %d, want normal", m.mode)
	}
	if got := m.queryInput.Value(); got != "w" {
		t.Errorf("input after cancel = %q, want %q", got, "w")
	}
	if tab.Query != "w" {
		t.Errorf("tab query = %q, want %q", tab.Query, "w")
	}
}

func TestModelSortCycle(t *testing.T) {
	m, a := newTestModel(t, modelCSV)
	tab := a.ActiveTab()
	drain(t, m, m.runQueryCmd(tab.ID, ""))

	// Move to the width column, then cycle ascending.
	press(t, m, "l", "s")
	if len(tab.SortKeys) != 1 || tab.SortKeys[0].Column != "width" || tab.SortKeys[0].Descending {
		t.Fatalf("sort keys after first cycle = %v", tab.SortKeys)
	}
	if got := m.grid.res.Rows[0].Cell("name").String(); got != "window" {
		t.Errorf("first row ascending = %q, want %q", got, "window")
	}

	press(t, m, "s")
	if !tab.SortKeys[0].Descending {
		t.Fatalf("second cycle should flip to descending, got %v", tab.SortKeys)
	}
	if got := m.grid.res.Rows[0].Cell("name").String(); got != "wall" {
		t.Errorf("first row descending = %q, want %q", got, "wall")
	}

	press(t, m, "S")
	if len(tab.SortKeys) != 0 {
		t.Fatalf("sort keys after clear = %v", tab.SortKeys)
	}
	if got := m.grid.res.Rows[0].Cell("name").String(); got != "door" {
		t.Errorf("first row unsorted = %q, want %q", got, "door")
	}
}

func TestModelTabSwitching(t *testing.T) {
	m, a := newTestModel(t, modelCSV, "city,pop\nreykjavik,140000\n")

	active := a.ActiveTab()
	if !strings.Contains(active.Path, "data1") {
		t.Fatalf("expected the second file active, got %s", active.Path)
	}
	drain(t, m, m.runQueryCmd(active.ID, ""))

	press(t, m, "tab")
	if got := a.ActiveTab(); !strings.Contains(got.Path, "data0") {
		t.Errorf("after tab active = %s, want data0", got.Path)
	}
	if got := m.grid.rowCount(); got != 3 {
		t.Errorf("grid rows after switch = %d, want 3", got)
	}

	press(t, m, "shift+tab")
	if got := a.ActiveTab(); !strings.Contains(got.Path, "data1") {
		t.Errorf("after shift+tab active = %s, want data1", got.Path)
	}
}

func TestModelMarks(t *testing.T) {
	m, a := newTestModel(t, modelCSV)
	tab := a.ActiveTab()
	drain(t, m, m.runQueryCmd(tab.ID, ""))

	press(t, m, "m")
	if !tab.Marks[0] {
		t.Errorf("row 0 not marked: %v", tab.Marks)
	}
	if m.grid.SelectedRow != 1 {
		t.Errorf("selection did not advance, row = %d", m.grid.SelectedRow)
	}

	press(t, m, "M")
	if len(tab.Marks) != 0 {
		t.Errorf("marks after clear = %v", tab.Marks)
	}
}

func TestModelFindStepping(t *testing.T) {
	m, a := newTestModel(t, modelCSV)
	tab := a.ActiveTab()
	drain(t, m, m.runQueryCmd(tab.ID, ""))

	press(t, m, "/")
	if m.mode != modeFind {
		t.Fatalf("mode = %d, want find mode", m.mode)
	}
	press(t, m, "w", "enter")

	if len(m.matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(m.matches))
	}
	if m.grid.SelectedRow != 1 {
		t.Errorf("first match row = %d, want 1", m.grid.SelectedRow)
	}
	if !strings.Contains(m.status, "match 1/2") {
		t.Errorf("status = %q, want match 1/2", m.status)
	}

	press(t, m, "n")
	if m.grid.SelectedRow != 2 {
		t.Errorf("second match row = %d, want 2", m.grid.SelectedRow)
	}
	press(t, m, "n")
	if m.grid.SelectedRow != 1 {
		t.Errorf("wraparound row = %d, want 1", m.grid.SelectedRow)
	}
	press(t, m, "N")
	if m.grid.SelectedRow != 2 {
		t.Errorf("reverse step row = %d, want 2", m.grid.SelectedRow)
	}
}

func TestModelFindNoMatches(t *testing.T) {
	m, a := newTestModel(t, modelCSV)
	drain(t, m, m.runQueryCmd(a.ActiveTab().ID, ""))

	press(t, m, "/", "z", "q", "enter")
	if len(m.matches) != 0 {
		t.Fatalf("matches = %d, want 0", len(m.matches))
	}
	if !strings.Contains(m.status, "no matches") {
		t.Errorf("status = %q, want a no-matches notice", m.status)
	}
}

func TestModelHelpOverlay(t *testing.T) {
	m, a := newTestModel(t, modelCSV)
	drain(t, m, m.runQueryCmd(a.ActiveTab().ID, ""))

	press(t, m, "?")
	if m.mode != modeHelp {
		t.Fatalf("mode = %d, want help mode", m.mode)
	}
	if view := m.View(); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Errorf("help view missing title")
	}

	press(t, m, "esc")
	if m.mode != modeNormal {
		t.Errorf("mode after esc = %d, want normal", m.mode)
	}
}

func TestModelStatsOverlay(t *testing.T) {
	m, a := newTestModel(t, modelCSV)
	drain(t, m, m.runQueryCmd(a.ActiveTab().ID, ""))

	press(t, m, "l", "p")
	if m.mode != modeStats {
		t.Fatalf("mode = %d, want stats mode", m.mode)
	}
	view := m.View()
	if !strings.Contains(view, "width") {
		t.Errorf("stats view missing column name")
	}
	if !strings.Contains(view, "3 values") {
		t.Errorf("stats view missing counts, got:\n%s", view)
	}

	press(t, m, "esc")
	if m.mode != modeNormal || m.profile != nil {
		t.Errorf("stats overlay did not close")
	}
}

func TestModelCloseTab(t *testing.T) {
	m, a := newTestModel(t, modelCSV, "city,pop\nreykjavik,140000\n")
	drain(t, m, m.runQueryCmd(a.ActiveTab().ID, ""))

	press(t, m, "ctrl+w")
	if got := len(a.Tabs()); got != 1 {
		t.Fatalf("tabs after close = %d, want 1", got)
	}
	if got := m.grid.rowCount(); got != 3 {
		t.Errorf("grid rows after close = %d, want 3", got)
	}

	press(t, m, "ctrl+w")
	if got := len(a.Tabs()); got != 0 {
		t.Fatalf("tabs after closing all = %d, want 0", got)
	}
	if view := m.View(); !strings.Contains(view, "no files open") {
		t.Errorf("empty view missing notice")
	}
}

func TestModelReload(t *testing.T) {
	m, a := newTestModel(t, "name,width\ndoor,82\n")
	tab := a.ActiveTab()
	drain(t, m, m.runQueryCmd(tab.ID, ""))
	if got := m.grid.rowCount(); got != 1 {
		t.Fatalf("rows before reload = %d, want 1", got)
	}

	if err := os.WriteFile(tab.Path, []byte("name,width\ndoor,82\nwindow,40\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	press(t, m, "r")
	if got := m.grid.rowCount(); got != 2 {
		t.Errorf("rows after reload = %d, want 2", got)
	}
}

func TestFormatBar(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
		width int
		want  string
	}{
		{"fits", "a", "b", 10, "a        b"},
		{"left truncated", "abcdefgh", "xy", 6, "abcdxy"},
		{"right too wide", "abc", "wxyz", 2, "ab"},
		{"zero width", "abc", "xyz", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatBar(tt.left, tt.right, tt.width); got != tt.want {
				t.Errorf("formatBar(%q, %q, %d) = %q, want %q",
					tt.left, tt.right, tt.width, got, tt.want)
			}
		})
	}
}
