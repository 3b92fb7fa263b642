package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridline/app"
	"gridline/app/query"
	"gridline/app/stats"
	"gridline/app/table"
)

type mode int

const (
	modeNormal mode = iota
	modeQuery
	modeFind
	modeHelp
	modeStats
)

// QueryQueuedMsg arrives from the debouncer when typing settles.
type QueryQueuedMsg struct {
	TabID string
	Text  string
}

// QueryDoneMsg carries a finished query run.
type QueryDoneMsg struct {
	TabID string
	Res   *query.Result
	Err   error
}

// FindDoneMsg carries find results for the current view.
type FindDoneMsg struct {
	Term    string
	Matches []app.Match
	Err     error
}

// ProfileDoneMsg carries a finished column profile.
type ProfileDoneMsg struct {
	Profile *stats.Profile
	Err     error
}

// ReloadDoneMsg is sent when a tab reload finishes.
type ReloadDoneMsg struct {
	TabID string
	Err   error
}

var (
	topBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 2)
	bottomBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 2)
	tabBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235"))
	tabActiveStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("25")).
			Foreground(lipgloss.Color("15")).
			Bold(true)
	tabInactiveStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("235")).
				Foreground(lipgloss.Color("245"))
)

// Model is the top-level bubbletea model: tab bar, query bar, grid,
// find bar and status line, with help and stats overlays.
type Model struct {
	app *app.App

	width  int
	height int

	mode mode

	grid       *Grid
	queryInput *QueryInput
	findInput  *FindInput

	matches  []app.Match
	matchPos int

	profile *stats.Profile

	// status is a transient message shown in the bottom bar until the
	// next result arrives.
	status string

	debouncer func(func())
	queryCh   chan QueryQueuedMsg

	// clipboard init
	clipOnce sync.Once
	clipOK   bool
}

// New creates the model. The query debounce window comes from
// settings.
func New(a *app.App) *Model {
	ms := a.Settings().DebounceMs
	if ms <= 0 {
		ms = 200
	}
	return &Model{
		app:        a,
		grid:       NewGrid(),
		queryInput: NewQueryInput(),
		findInput:  NewFindInput(),
		debouncer:  debounce.New(time.Duration(ms) * time.Millisecond),
		queryCh:    make(chan QueryQueuedMsg, 8),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForQueued()}
	if tab := m.app.ActiveTab(); tab != nil {
		m.queryInput.SetValue(tab.Query)
		cmds = append(cmds, m.runQueryCmd(tab.ID, tab.Query))
	}
	return tea.Batch(cmds...)
}

// waitForQueued relays debounced query requests into the update loop.
func (m *Model) waitForQueued() tea.Cmd {
	return func() tea.Msg {
		return <-m.queryCh
	}
}

func (m *Model) runQueryCmd(tabID, text string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.app.RunQuery(tabID, text)
		return QueryDoneMsg{TabID: tabID, Res: res, Err: err}
	}
}

func (m *Model) findCmd(term string, regex bool) tea.Cmd {
	tab := m.app.ActiveTab()
	if tab == nil || tab.View() == nil {
		return nil
	}
	res := tab.View()
	return func() tea.Msg {
		matches, err := app.Find(res, term, regex)
		return FindDoneMsg{Term: term, Matches: matches, Err: err}
	}
}

func (m *Model) profileCmd(tabID, column string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.app.ColumnProfile(tabID, column)
		return ProfileDoneMsg{Profile: p, Err: err}
	}
}

func (m *Model) reloadCmd(tabID string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Reload(tabID)
		return ReloadDoneMsg{TabID: tabID, Err: err}
	}
}

// quit saves the workspace when one is open and stops the program.
func (m *Model) quit() tea.Cmd {
	if saved, err := m.app.SaveWorkspace(); err != nil {
		m.app.Log("error", fmt.Sprintf("Workspace save on quit failed: %v", err))
	} else if saved {
		m.app.Log("info", "Workspace saved on quit")
	}
	return tea.Quit
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case QueryQueuedMsg:
		// Re-arm the relay, then run only if the text is still what the
		// user sees.
		cmds := []tea.Cmd{m.waitForQueued()}
		if tab := m.app.GetTab(msg.TabID); tab != nil && m.queryInput.Value() == msg.Text {
			cmds = append(cmds, m.runQueryCmd(msg.TabID, msg.Text))
		}
		return m, tea.Batch(cmds...)

	case QueryDoneMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		active := m.app.ActiveTab()
		if active == nil || active.ID != msg.TabID {
			// Stale result for a tab the user already left.
			return m, nil
		}
		m.applyResult(msg.Res)
		return m, nil

	case FindDoneMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.matches = msg.Matches
		m.matchPos = -1
		if len(m.matches) == 0 {
			m.status = fmt.Sprintf("no matches for %q", msg.Term)
			return m, nil
		}
		m.jumpMatch(1)
		return m, nil

	case ProfileDoneMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.profile = msg.Profile
		m.mode = modeStats
		return m, nil

	case ReloadDoneMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.status = "reloaded"
		if tab := m.app.GetTab(msg.TabID); tab != nil {
			return m, m.runQueryCmd(tab.ID, tab.Query)
		}
		return m, nil

	case QuerySubmitMsg:
		m.mode = modeNormal
		m.queryInput.Blur()
		m.layout()
		if tab := m.app.ActiveTab(); tab != nil {
			return m, m.runQueryCmd(tab.ID, msg.Text)
		}
		return m, nil

	case QueryCancelMsg:
		m.mode = modeNormal
		m.queryInput.Blur()
		m.layout()
		if tab := m.app.ActiveTab(); tab != nil {
			m.queryInput.SetValue(tab.Query)
		}
		return m, nil

	case FindSubmitMsg:
		m.mode = modeNormal
		m.layout()
		return m, m.findCmd(msg.Term, msg.Regex)

	case CloseFindMsg:
		m.mode = modeNormal
		m.findInput.Reset()
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeHelp:
		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()
		case "q", "?", "esc":
			m.mode = modeNormal
		}
		return m, nil

	case modeStats:
		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()
		case "q", "p", "esc":
			m.mode = modeNormal
			m.profile = nil
		}
		return m, nil

	case modeQuery:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		var cmd tea.Cmd
		m.queryInput, cmd = m.queryInput.Update(msg)
		m.queueQuery()
		return m, cmd

	case modeFind:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		var cmd tea.Cmd
		m.findInput, cmd = m.findInput.Update(msg)
		return m, cmd
	}

	// Normal mode.
	tab := m.app.ActiveTab()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.quit()
	case "?":
		m.mode = modeHelp
	case "e":
		m.mode = modeQuery
		m.queryInput.Focus()
	case "/":
		m.mode = modeFind
		m.findInput.Reset()
		m.findInput.Input.Focus()
		m.layout()
	case "tab":
		if next := m.app.NextTab(); next != nil {
			return m, m.activateTab(next)
		}
	case "shift+tab":
		if prev := m.app.PrevTab(); prev != nil {
			return m, m.activateTab(prev)
		}
	case "ctrl+w":
		if tab != nil {
			m.app.CloseTab(tab.ID)
			if next := m.app.ActiveTab(); next != nil {
				return m, m.activateTab(next)
			}
			m.grid.SetResult(nil, nil, nil)
			m.queryInput.SetValue("")
		}
	case "r":
		if tab != nil {
			m.status = "reloading..."
			return m, m.reloadCmd(tab.ID)
		}
	case "up", "k":
		m.grid.MoveSelection(-1)
	case "down", "j":
		m.grid.MoveSelection(1)
	case "ctrl+u", "pgup":
		m.grid.PageUp()
	case "ctrl+d", "pgdown":
		m.grid.PageDown()
	case "g", "home":
		m.grid.Home()
	case "G", "end":
		m.grid.End()
	case "left", "h":
		m.grid.MoveColumn(-1)
	case "right", "l":
		m.grid.MoveColumn(1)
	case "s":
		if tab != nil {
			if col := m.grid.SelectedColumn(); col != "" {
				m.app.CycleSort(tab.ID, col)
				return m, m.runQueryCmd(tab.ID, tab.Query)
			}
		}
	case "S":
		if tab != nil {
			m.app.ClearSort(tab.ID)
			return m, m.runQueryCmd(tab.ID, tab.Query)
		}
	case "m":
		if tab != nil {
			if row := m.grid.SelectedRowData(); row != nil {
				m.app.ToggleMark(tab.ID, row.Index)
				m.grid.MoveSelection(1)
			}
		}
	case "M":
		if tab != nil {
			m.app.ClearMarks(tab.ID)
			m.status = "marks cleared"
		}
	case "y":
		if tab != nil && tab.View() != nil {
			if row := m.grid.SelectedRowData(); row != nil {
				m.copyAndReport(tab.View(), []*table.Row{row})
			}
		}
	case "Y":
		if tab != nil && tab.View() != nil {
			m.copyAndReport(tab.View(), rowsToCopy(tab.View(), tab.Marks))
		}
	case "n":
		m.jumpMatch(1)
	case "N":
		m.jumpMatch(-1)
	case "p":
		if tab != nil {
			if col := m.grid.SelectedColumn(); col != "" {
				return m, m.profileCmd(tab.ID, col)
			}
		}
	}
	return m, nil
}

// queueQuery schedules a debounced engine run for the current input.
func (m *Model) queueQuery() {
	tab := m.app.ActiveTab()
	if tab == nil {
		return
	}
	tabID, text := tab.ID, m.queryInput.Value()
	m.debouncer(func() {
		select {
		case m.queryCh <- QueryQueuedMsg{TabID: tabID, Text: text}:
		default:
		}
	})
}

// activateTab points the UI at another tab and reruns its stored query.
func (m *Model) activateTab(tab *app.Tab) tea.Cmd {
	m.queryInput.SetValue(tab.Query)
	m.matches = nil
	m.matchPos = 0
	m.grid.SelectedRow = 0
	m.grid.TopRow = 0
	m.status = ""
	return m.runQueryCmd(tab.ID, tab.Query)
}

func (m *Model) applyResult(res *query.Result) {
	tab := m.app.ActiveTab()
	var marks map[int]bool
	var keys []query.SortKey
	if tab != nil {
		marks = tab.Marks
		keys = tab.SortKeys
	}
	m.grid.SetResult(res, marks, keys)
	// Row positions shifted, so previous find results no longer point
	// anywhere useful.
	m.matches = nil
	m.matchPos = 0
	m.status = ""
}

func (m *Model) jumpMatch(delta int) {
	if len(m.matches) == 0 {
		m.status = "no matches"
		return
	}
	m.matchPos = (m.matchPos + delta + len(m.matches)) % len(m.matches)
	mt := m.matches[m.matchPos]
	m.grid.SelectRow(mt.Row)
	m.selectColumn(mt.Column)
	m.status = fmt.Sprintf("match %d/%d · %s: %s", m.matchPos+1, len(m.matches), mt.Column, mt.Snippet)
}

func (m *Model) selectColumn(name string) {
	tab := m.app.ActiveTab()
	if tab == nil || tab.View() == nil {
		return
	}
	for i, c := range tab.View().Columns {
		if c == name {
			m.grid.SelectedCol = i
			m.grid.MoveColumn(0)
			break
		}
	}
}

func (m *Model) copyAndReport(res *query.Result, rows []*table.Row) {
	n, err := m.copyRows(res, rows)
	if err != nil {
		m.status = err.Error()
		return
	}
	if n == 1 {
		m.status = "copied 1 row"
	} else {
		m.status = fmt.Sprintf("copied %d rows", n)
	}
}

func (m *Model) layout() {
	m.grid.Width = m.width
	m.grid.Height = m.gridHeight()
	m.queryInput.Width = m.width
	m.findInput.Width = m.width
}

// gridHeight is what remains after the top bar, tab bar, query bar and
// status bar, minus the find bar when it is open.
func (m *Model) gridHeight() int {
	h := m.height - 4
	if m.mode == modeFind {
		h--
	}
	if h < 4 {
		h = 4
	}
	return h
}

// View implements tea.Model
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	switch m.mode {
	case modeHelp:
		return renderHelp(m.width, m.height)
	case modeStats:
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			renderProfile(m.profile, min(m.width-8, 72)),
		)
	}

	m.layout()

	sections := []string{
		m.renderTopBar(),
		m.renderTabBar(),
		m.queryInput.View(),
		m.grid.View(),
	}
	if m.mode == modeFind {
		sections = append(sections, m.findInput.View())
	}
	sections = append(sections, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTopBar() string {
	left := "gridline"
	if ws := m.app.WorkspaceName(); ws != "" {
		left += " · " + ws
	}
	right := ""
	if tab := m.app.ActiveTab(); tab != nil {
		right = tab.Path
		if tab.Warning != "" {
			right = "⚠ " + tab.Warning + " · " + right
		}
	}
	return topBarStyle.Width(m.width).Render(formatBar(left, right, m.width-4))
}

func (m *Model) renderTabBar() string {
	tabs := m.app.Tabs()
	if len(tabs) == 0 {
		return tabBarStyle.Width(m.width).Render(" no files open")
	}
	active := m.app.ActiveTab()
	var parts []string
	for i, t := range tabs {
		label := fmt.Sprintf(" %d:%s ", i+1, t.Name())
		if t.Warning != "" {
			label = fmt.Sprintf(" %d:%s! ", i+1, t.Name())
		}
		if active != nil && t.ID == active.ID {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	return tabBarStyle.Width(m.width).Render(strings.Join(parts, ""))
}

func (m *Model) renderStatusBar() string {
	left := m.status
	if left == "" {
		left = "[e] query  [/] find  [s] sort  [m] mark  [y] copy  [?] help"
	}
	var right []string
	if tab := m.app.ActiveTab(); tab != nil {
		if spec := query.FormatSortKeys(tab.SortKeys); spec != "" {
			right = append(right, "sort "+spec)
		}
	}
	if st := m.app.CacheStats(); st.Hits+st.Misses > 0 {
		right = append(right, fmt.Sprintf("cache %.0f%%", st.HitRate*100))
	}
	return bottomBarStyle.Width(m.width).Render(formatBar(left, strings.Join(right, " · "), m.width-4))
}

// formatBar lays out left and right content across one bar line,
// truncating the left side first when space runs out.
func formatBar(left, right string, width int) string {
	if width < 0 {
		width = 0
	}
	if len(left)+len(right) > width {
		if width > len(right) {
			return left[:width-len(right)] + right
		}
		return left[:min(width, len(left))]
	}
	spacing := width - len(left) - len(right)
	return left + strings.Repeat(" ", spacing) + right
}
