package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cfsedit/internal/store"
	"cfsedit/internal/types"
)

// TeamSelectedMsg is emitted when the user activates a team row.
type TeamSelectedMsg struct {
	ID int64
}

// FilterChangedMsg is emitted when the filter text or field changes and the
// team list needs reloading.
type FilterChangedMsg struct{}

// TeamListModel is the left pane: the filterable team table with
// multi-select for batch editing.
type TeamListModel struct {
	styles Styles
	width  int
	height int

	teams       []types.Team
	leagueNames map[int64]string

	cursor int
	offset int
	marked map[int64]bool

	filter      textinput.Model
	filterField store.FilterField
	filtering   bool

	focused bool
}

// NewTeamListModel creates the team list pane.
func NewTeamListModel(styles Styles) TeamListModel {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 64
	ti.Prompt = "/ "

	return TeamListModel{
		styles: styles,
		marked: make(map[int64]bool),
		filter: ti,
	}
}

// SetSize updates the pane dimensions.
func (m *TeamListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.filter.Width = PanelContentWidth(width) - 14
	m.clampCursor()
}

// SetTeams replaces the visible team rows, keeping the cursor on the same
// team when it survives the filter change.
func (m *TeamListModel) SetTeams(teams []types.Team, names map[int64]string) {
	var keep int64 = -1
	if m.cursor < len(m.teams) {
		keep = m.teams[m.cursor].ID
	}
	m.teams = teams
	m.leagueNames = names
	m.cursor = 0
	for i, t := range teams {
		if t.ID == keep {
			m.cursor = i
			break
		}
	}
	// Drop marks for teams no longer visible.
	visible := make(map[int64]bool, len(teams))
	for _, t := range teams {
		visible[t.ID] = true
	}
	for id := range m.marked {
		if !visible[id] {
			delete(m.marked, id)
		}
	}
	m.clampCursor()
}

// Filter returns the store filter the current input describes.
func (m TeamListModel) Filter() store.Filter {
	return store.Filter{Query: m.filter.Value(), Field: m.filterField}
}

// Marked returns the multi-selected team identifiers.
func (m TeamListModel) Marked() []int64 {
	ids := make([]int64, 0, len(m.marked))
	for id := range m.marked {
		ids = append(ids, id)
	}
	return ids
}

// ClearMarks drops the multi-selection.
func (m *TeamListModel) ClearMarks() {
	m.marked = make(map[int64]bool)
}

// CurrentID returns the team under the cursor, or false when the list is
// empty.
func (m TeamListModel) CurrentID() (int64, bool) {
	if m.cursor >= len(m.teams) {
		return 0, false
	}
	return m.teams[m.cursor].ID, true
}

// Focus gives the pane keyboard focus.
func (m *TeamListModel) Focus() { m.focused = true }
func (m *TeamListModel) Blur() { m.focused = false; m.filtering = false; m.filter.Blur() }
func (m TeamListModel) Focused() bool { return m.focused }

// Filtering reports whether keystrokes are going into the filter input.
func (m TeamListModel) Filtering() bool { return m.filtering }

func (m *TeamListModel) clampCursor() {
	if m.cursor >= len(m.teams) {
		m.cursor = len(m.teams) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m TeamListModel) visibleRows() int {
	// Header row, filter bar and borders eat into the pane height.
	rows := PanelContentHeight(m.height) - FilterBarHeight - 1
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Update handles keys while the pane has focus.
func (m TeamListModel) Update(msg tea.Msg) (TeamListModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	if m.filtering {
		switch key.String() {
		case "enter", "esc":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		case "tab":
			m.filterField = (m.filterField + 1) % 4
			return m, func() tea.Msg { return FilterChangedMsg{} }
		default:
			var cmd tea.Cmd
			before := m.filter.Value()
			m.filter, cmd = m.filter.Update(msg)
			if m.filter.Value() != before {
				return m, tea.Batch(cmd, func() tea.Msg { return FilterChangedMsg{} })
			}
			return m, cmd
		}
	}

	switch key.String() {
	case "up", "k":
		m.cursor--
		m.clampCursor()
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "pgup":
		m.cursor -= m.visibleRows()
		m.clampCursor()
	case "pgdown":
		m.cursor += m.visibleRows()
		m.clampCursor()
	case "home", "g":
		m.cursor = 0
		m.clampCursor()
	case "end", "G":
		m.cursor = len(m.teams) - 1
		m.clampCursor()
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case " ":
		if id, ok := m.CurrentID(); ok {
			if m.marked[id] {
				delete(m.marked, id)
			} else {
				m.marked[id] = true
			}
		}
	case "a":
		// Mark everything the filter currently shows.
		for _, t := range m.teams {
			m.marked[t.ID] = true
		}
	case "A":
		m.ClearMarks()
	case "enter":
		if id, ok := m.CurrentID(); ok {
			return m, func() tea.Msg { return TeamSelectedMsg{ID: id} }
		}
	}
	return m, nil
}

func (m TeamListModel) filterFieldLabel() string {
	switch m.filterField {
	case store.FilterName:
		return "name"
	case store.FilterLocation:
		return "location"
	case store.FilterLeague:
		return "league"
	}
	return "all"
}

// View renders the pane.
func (m TeamListModel) View() string {
	var sb strings.Builder

	scope := m.styles.Subtitle.Render(fmt.Sprintf("[%s]", m.filterFieldLabel()))
	sb.WriteString(m.filter.View() + " " + scope + "\n")
	sb.WriteString(m.styles.RenderDivider(PanelContentWidth(m.width)) + "\n")

	if len(m.teams) == 0 {
		sb.WriteString(m.styles.Muted.Render("no teams match"))
	} else {
		rows := m.visibleRows()
		end := m.offset + rows
		if end > len(m.teams) {
			end = len(m.teams)
		}
		for i := m.offset; i < end; i++ {
			t := m.teams[i]
			mark := " "
			if m.marked[t.ID] {
				mark = "*"
			}
			line := fmt.Sprintf("%s %-22s %10d  %s",
				mark, truncate(t.Name, 22), t.Wealth,
				truncate(store.LeagueName(m.leagueNames, t.LeagueID), 14))
			switch {
			case i == m.cursor && m.focused:
				line = m.styles.Cursor.Render(line)
			case i == m.cursor:
				line = m.styles.Selected.Render(line)
			case m.marked[t.ID]:
				line = m.styles.Warning.Render(line)
			default:
				line = m.styles.Body.Render(line)
			}
			sb.WriteString(line + "\n")
		}
	}

	pane := m.styles.Pane
	if m.focused {
		pane = m.styles.ActivePane
	}
	return pane.Width(m.width - PanelBorderWidth).
		Height(PanelContentHeight(m.height)).
		Render(strings.TrimRight(sb.String(), "\n"))
}

// StatusLine summarizes the list for the status bar.
func (m TeamListModel) StatusLine() string {
	if len(m.marked) > 0 {
		return fmt.Sprintf("%d teams, %d marked", len(m.teams), len(m.marked))
	}
	return fmt.Sprintf("%d teams", len(m.teams))
}

// truncate shortens s to max runes, never splitting a multi-byte
// character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
