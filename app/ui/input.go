package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// QuerySubmitMsg is sent when the query should be applied immediately.
type QuerySubmitMsg struct {
	Text string
}

// QueryCancelMsg is sent when query editing is abandoned.
type QueryCancelMsg struct{}

var (
	queryBarStyle = lipgloss.NewStyle().
			Padding(0, 1)
	queryBarFocusedStyle = queryBarStyle.
				Foreground(lipgloss.Color("229"))
	inputHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")).
			Italic(true)
)

// QueryInput is the always-visible query bar. While focused it owns
// the keyboard; enter applies the text, esc restores the last applied
// query. Live edits reach the engine through the model's debouncer.
type QueryInput struct {
	Input textinput.Model
	Width int
}

// NewQueryInput creates the query bar, unfocused.
func NewQueryInput() *QueryInput {
	ti := textinput.New()
	ti.Placeholder = "term  col=value  col>n  -excluded  alt | alt"
	ti.Prompt = "query❯ "
	ti.CharLimit = 512
	return &QueryInput{Input: ti}
}

func (q *QueryInput) Focus() {
	q.Input.Focus()
}

func (q *QueryInput) Blur() {
	q.Input.Blur()
}

func (q *QueryInput) Focused() bool {
	return q.Input.Focused()
}

func (q *QueryInput) Value() string {
	return q.Input.Value()
}

// SetValue replaces the text and puts the cursor at the end.
func (q *QueryInput) SetValue(s string) {
	q.Input.SetValue(s)
	q.Input.CursorEnd()
}

// Update handles messages while the query bar is focused.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			text := q.Input.Value()
			return q, func() tea.Msg {
				return QuerySubmitMsg{Text: text}
			}
		case "esc":
			return q, func() tea.Msg {
				return QueryCancelMsg{}
			}
		}
	}

	var cmd tea.Cmd
	q.Input, cmd = q.Input.Update(msg)
	return q, cmd
}

// View renders the query bar.
func (q *QueryInput) View() string {
	inputWidth := q.Width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.Input.Width = inputWidth

	if q.Input.Focused() {
		return queryBarFocusedStyle.Render(q.Input.View())
	}
	return queryBarStyle.Render(q.Input.View())
}

// FindSubmitMsg is sent when a find should run.
type FindSubmitMsg struct {
	Term  string
	Regex bool
}

// CloseFindMsg is sent when the find bar should close.
type CloseFindMsg struct{}

// FindInput is the find bar opened with "/".
type FindInput struct {
	Input textinput.Model
	Regex bool
	Width int
}

// NewFindInput creates a new find input
func NewFindInput() *FindInput {
	ti := textinput.New()
	ti.Placeholder = "Find..."
	ti.Prompt = "/"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40
	return &FindInput{Input: ti}
}

// ToggleMode switches between plain text and regex matching.
func (f *FindInput) ToggleMode() {
	f.Regex = !f.Regex
}

// Reset clears the find input
func (f *FindInput) Reset() {
	f.Input.SetValue("")
	f.Regex = false
}

// Update handles messages
func (f *FindInput) Update(msg tea.Msg) (*FindInput, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			f.ToggleMode()
			return f, nil
		case "enter":
			term := f.Input.Value()
			if term != "" {
				regex := f.Regex
				return f, func() tea.Msg {
					return FindSubmitMsg{Term: term, Regex: regex}
				}
			}
			return f, nil
		case "esc":
			return f, func() tea.Msg {
				return CloseFindMsg{}
			}
		}
	}

	var cmd tea.Cmd
	f.Input, cmd = f.Input.Update(msg)
	return f, cmd
}

// View renders the find bar.
func (f *FindInput) View() string {
	modeIndicator := "[Text]"
	modeColor := lipgloss.Color("#a6e3a1")
	if f.Regex {
		modeIndicator = "[Regex]"
		modeColor = lipgloss.Color("#89b4fa")
	}
	modeStyle := lipgloss.NewStyle().
		Foreground(modeColor).
		Bold(true)

	inputWidth := f.Width - 50
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.Input.Width = inputWidth

	help := inputHelpStyle.Render("Tab: toggle mode │ Enter: find │ Esc: close")
	return " " + modeStyle.Render(modeIndicator) + " " + f.Input.View() + "  " + help
}
