package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cfsedit/internal/types"
)

// StaffSavedMsg is emitted when the user commits a staff edit. The record
// carries the new name, fame and ability already folded in.
type StaffSavedMsg struct {
	Staff types.Staff
}

// staffField indexes the inputs of the staff edit form.
const (
	staffFieldName = iota
	staffFieldFame
	staffFieldAbility
	staffFieldCount
)

// StaffModel is the staff pane: the employee list of the selected team,
// with an inline edit form.
type StaffModel struct {
	styles Styles
	width  int
	height int

	staff  []types.Staff
	cursor int

	editing bool
	inputs  [staffFieldCount]textinput.Model
	focus   int
	editErr string

	focused bool
}

// NewStaffModel creates the staff pane.
func NewStaffModel(styles Styles) StaffModel {
	m := StaffModel{styles: styles}
	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Prompt = ""
		m.inputs[i] = ti
	}
	return m
}

// SetSize updates the pane dimensions.
func (m *StaffModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		m.inputs[i].Width = PanelContentWidth(width) - 10
	}
}

// SetStaff replaces the listed employees.
func (m *StaffModel) SetStaff(staff []types.Staff) {
	m.staff = staff
	m.cursor = 0
	m.editing = false
}

// Focus gives the pane keyboard focus.
func (m *StaffModel) Focus() { m.focused = true }

// Blur removes focus and abandons any open edit.
func (m *StaffModel) Blur() {
	m.focused = false
	m.stopEditing()
}

func (m StaffModel) Focused() bool { return m.focused }

// Editing reports whether keystrokes are going into the edit form.
func (m StaffModel) Editing() bool { return m.editing }

func (m *StaffModel) stopEditing() {
	m.editing = false
	m.editErr = ""
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *StaffModel) startEditing() tea.Cmd {
	if m.cursor >= len(m.staff) {
		return nil
	}
	st := m.staff[m.cursor]
	ability, err := st.Ability()
	if err != nil {
		m.editErr = "unreadable ability data"
		return nil
	}
	m.inputs[staffFieldName].SetValue(st.Name)
	m.inputs[staffFieldFame].SetValue(strconv.FormatInt(st.Fame, 10))
	m.inputs[staffFieldAbility].SetValue(strconv.FormatInt(ability, 10))
	m.editing = true
	m.editErr = ""
	m.focus = staffFieldName
	return m.inputs[staffFieldName].Focus()
}

// commitEdit validates the form and emits the updated record.
func (m *StaffModel) commitEdit() tea.Cmd {
	st := m.staff[m.cursor]

	name := strings.TrimSpace(m.inputs[staffFieldName].Value())
	if name == "" {
		m.editErr = "name must not be empty"
		return nil
	}
	fame, err := strconv.ParseInt(strings.TrimSpace(m.inputs[staffFieldFame].Value()), 10, 64)
	if err != nil || fame < 0 {
		m.editErr = "fame must be a non-negative number"
		return nil
	}
	ability, err := strconv.ParseInt(strings.TrimSpace(m.inputs[staffFieldAbility].Value()), 10, 64)
	if err != nil || ability < 0 {
		m.editErr = "ability must be a non-negative number"
		return nil
	}

	st.Name = name
	st.Fame = fame
	if err := st.SetAbility(ability); err != nil {
		m.editErr = "unreadable ability data"
		return nil
	}

	m.stopEditing()
	return func() tea.Msg { return StaffSavedMsg{Staff: st} }
}

// Update handles keys while the pane has focus.
func (m StaffModel) Update(msg tea.Msg) (StaffModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	if m.editing {
		switch key.String() {
		case "esc":
			m.stopEditing()
			return m, nil
		case "enter":
			return m, m.commitEdit()
		case "up", "shift+tab":
			return m.moveEditFocus(-1), nil
		case "down", "tab":
			return m.moveEditFocus(1), nil
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.staff)-1 {
			m.cursor++
		}
	case "enter", "e":
		return m, m.startEditing()
	}
	return m, nil
}

func (m StaffModel) moveEditFocus(delta int) StaffModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + staffFieldCount) % staffFieldCount
	m.inputs[m.focus].Focus()
	return m
}

// View renders the pane.
func (m StaffModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Staff") + "\n")

	if len(m.staff) == 0 {
		sb.WriteString(m.styles.Muted.Render("no staff employed"))
	} else if m.editing {
		st := m.staff[m.cursor]
		sb.WriteString(m.styles.Subtitle.Render(st.String()) + "\n\n")
		for i, label := range []string{"Name", "Fame", "Ability"} {
			sb.WriteString(m.styles.FieldLabel.Render(label) + m.inputs[i].View() + "\n")
		}
		if m.editErr != "" {
			sb.WriteString("\n" + m.styles.Error.Render(m.editErr))
		} else {
			sb.WriteString("\n" + m.styles.Muted.Render("enter: save  esc: cancel"))
		}
	} else {
		for i, st := range m.staff {
			ability, err := st.Ability()
			abilityText := strconv.FormatInt(ability, 10)
			if err != nil {
				abilityText = "?"
			}
			line := fmt.Sprintf("%-20s fame %4d  ability %4s",
				truncate(st.Name, 20), st.Fame, abilityText)
			switch {
			case i == m.cursor && m.focused:
				line = m.styles.Cursor.Render(line)
			case i == m.cursor:
				line = m.styles.Selected.Render(line)
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
