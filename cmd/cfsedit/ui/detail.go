package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cfsedit/internal/types"
)

// FieldEditedMsg is emitted when the user commits a field edit in the
// detail form. Value carries the raw text; validation happens upstream.
type FieldEditedMsg struct {
	Field types.Field
	Value string
}

// DetailModel is the team detail form: one input per editable field.
type DetailModel struct {
	styles Styles
	width  int
	height int

	team   types.Team
	loaded bool

	fields []types.Field
	inputs []textinput.Model
	focus  int
	dirty  map[types.Field]bool

	hasLogo bool
	focused bool
}

// NewDetailModel creates the detail form.
func NewDetailModel(styles Styles, hasReputation bool) DetailModel {
	fields := make([]types.Field, 0, len(types.TeamFields))
	for _, f := range types.TeamFields {
		if f == types.FieldReputation && !hasReputation {
			continue
		}
		fields = append(fields, f)
	}

	inputs := make([]textinput.Model, len(fields))
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 80
		ti.Prompt = ""
		inputs[i] = ti
	}

	return DetailModel{
		styles: styles,
		fields: fields,
		inputs: inputs,
		dirty:  make(map[types.Field]bool),
	}
}

// SetSize updates the pane dimensions.
func (m *DetailModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		m.inputs[i].Width = PanelContentWidth(width) - 14
	}
}

// SetTeam loads a team into the form, resetting all inputs and dirty marks.
func (m *DetailModel) SetTeam(team types.Team, hasLogo bool) {
	m.team = team
	m.loaded = true
	m.hasLogo = hasLogo
	m.dirty = make(map[types.Field]bool)
	for i, f := range m.fields {
		m.inputs[i].SetValue(fieldText(team, f))
		m.inputs[i].Blur()
	}
	m.focus = 0
	if m.focused {
		m.inputs[0].Focus()
	}
}

// MarkClean clears the dirty indicators after a save.
func (m *DetailModel) MarkClean() {
	m.dirty = make(map[types.Field]bool)
}

// Team returns the loaded team's identifier.
func (m DetailModel) Team() (int64, bool) {
	if !m.loaded {
		return 0, false
	}
	return m.team.ID, true
}

// Focus gives the form keyboard focus.
func (m *DetailModel) Focus() {
	m.focused = true
	if m.loaded && len(m.inputs) > 0 {
		m.inputs[m.focus].Focus()
	}
}

// Blur removes keyboard focus.
func (m *DetailModel) Blur() {
	m.focused = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m DetailModel) Focused() bool { return m.focused }

// Editing reports whether keystrokes are going into a field input.
func (m DetailModel) Editing() bool {
	return m.focused && m.loaded
}

func fieldText(t types.Team, f types.Field) string {
	switch f {
	case types.FieldName:
		return t.Name
	case types.FieldWealth:
		return strconv.FormatInt(t.Wealth, 10)
	case types.FieldFoundYear:
		return strconv.FormatInt(t.FoundYear, 10)
	case types.FieldLocation:
		return t.Location
	case types.FieldSupporters:
		return strconv.FormatInt(t.SupporterCount, 10)
	case types.FieldStadium:
		return t.StadiumName
	case types.FieldNickname:
		return t.Nickname
	case types.FieldLeague:
		return strconv.FormatInt(t.LeagueID, 10)
	case types.FieldReputation:
		return strconv.FormatInt(t.Reputation, 10)
	}
	return ""
}

func fieldLabel(f types.Field) string {
	switch f {
	case types.FieldName:
		return "Name"
	case types.FieldWealth:
		return "Wealth"
	case types.FieldFoundYear:
		return "Founded"
	case types.FieldLocation:
		return "Location"
	case types.FieldSupporters:
		return "Supporters"
	case types.FieldStadium:
		return "Stadium"
	case types.FieldNickname:
		return "Nickname"
	case types.FieldLeague:
		return "League ID"
	case types.FieldReputation:
		return "Reputation"
	}
	return string(f)
}

// Update handles keys while the form has focus.
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || !m.loaded {
		return m, nil
	}

	switch key.String() {
	case "up", "shift+tab":
		return m.commitAndMove(-1)
	case "down", "tab":
		return m.commitAndMove(1)
	case "enter":
		return m.commit()
	}

	var cmd tea.Cmd
	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.inputs[m.focus].Value() != before {
		m.dirty[m.fields[m.focus]] = true
	}
	return m, cmd
}

// commit emits the current field's value without moving focus.
func (m DetailModel) commit() (DetailModel, tea.Cmd) {
	f := m.fields[m.focus]
	if !m.dirty[f] {
		return m, nil
	}
	value := m.inputs[m.focus].Value()
	return m, func() tea.Msg { return FieldEditedMsg{Field: f, Value: value} }
}

func (m DetailModel) commitAndMove(delta int) (DetailModel, tea.Cmd) {
	var cmd tea.Cmd
	m, cmd = m.commit()

	m.inputs[m.focus].Blur()
	m.focus += delta
	if m.focus < 0 {
		m.focus = len(m.inputs) - 1
	}
	if m.focus >= len(m.inputs) {
		m.focus = 0
	}
	return m, tea.Batch(cmd, m.inputs[m.focus].Focus())
}

// RevertField restores a field input to the loaded value after a rejected
// edit.
func (m *DetailModel) RevertField(f types.Field) {
	for i, field := range m.fields {
		if field == f {
			m.inputs[i].SetValue(fieldText(m.team, f))
			delete(m.dirty, f)
			return
		}
	}
}

// View renders the form pane.
func (m DetailModel) View() string {
	var sb strings.Builder

	if !m.loaded {
		sb.WriteString(m.styles.Muted.Render("select a team to edit"))
	} else {
		sb.WriteString(m.styles.Title.Render(m.team.String()) + "\n")
		logoNote := "no logo"
		if m.hasLogo {
			logoNote = "logo on disk"
		}
		sb.WriteString(m.styles.Subtitle.Render(logoNote) + "\n\n")

		for i, f := range m.fields {
			label := m.styles.FieldLabel.Render(fieldLabel(f))
			if m.dirty[f] {
				label = m.styles.FieldDirty.Render(fmt.Sprintf("%-12s", fieldLabel(f)+"*"))
			}
			sb.WriteString(label + m.inputs[i].View() + "\n")
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
