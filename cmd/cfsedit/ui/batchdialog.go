package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cfsedit/internal/session"
	"cfsedit/internal/types"
)

// BatchAppliedMsg carries a committed batch adjustment.
type BatchAppliedMsg struct {
	Field    types.Field
	Modifier session.Modifier
}

// BatchSetMsg carries a raw value to set verbatim across the marked
// teams, for the fields that have no notion of add or percent.
type BatchSetMsg struct {
	Field types.Field
	Value string
}

// BatchCancelledMsg is emitted when the dialog is dismissed.
type BatchCancelledMsg struct{}

// batchFields are the fields a batch adjustment can target.
var batchFields = []types.Field{
	types.FieldWealth,
	types.FieldSupporters,
	types.FieldReputation,
	types.FieldLocation,
	types.FieldLeague,
}

// batchSetOnly marks fields that only support a direct set.
var batchSetOnly = map[types.Field]bool{
	types.FieldLocation: true,
	types.FieldLeague:   true,
}

var batchModes = []struct {
	mode  session.ModifierMode
	label string
}{
	{session.ModifierSet, "set to"},
	{session.ModifierAdd, "add"},
	{session.ModifierPercent, "change by %"},
}

// BatchDialog is the modal for adjusting one numeric field across every
// marked team.
type BatchDialog struct {
	styles Styles
	count  int

	fields []types.Field
	field  int
	mode   int
	input  textinput.Model
	errMsg string
}

// NewBatchDialog creates the dialog for count marked teams.
func NewBatchDialog(styles Styles, count int, hasReputation bool) (BatchDialog, tea.Cmd) {
	fields := make([]types.Field, 0, len(batchFields))
	for _, f := range batchFields {
		if f == types.FieldReputation && !hasReputation {
			continue
		}
		fields = append(fields, f)
	}

	ti := textinput.New()
	ti.CharLimit = 40
	ti.Width = 16
	ti.Placeholder = "amount"

	d := BatchDialog{styles: styles, count: count, fields: fields, input: ti}
	return d, d.input.Focus()
}

// Update handles the dialog keys.
func (d BatchDialog) Update(msg tea.Msg) (BatchDialog, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	switch key.String() {
	case "esc":
		return d, func() tea.Msg { return BatchCancelledMsg{} }
	case "left", "right":
		if batchSetOnly[d.fields[d.field]] {
			return d, nil
		}
		delta := 1
		if key.String() == "left" {
			delta = -1
		}
		d.mode = (d.mode + delta + len(batchModes)) % len(batchModes)
		return d, nil
	case "up", "down", "tab":
		delta := 1
		if key.String() == "up" {
			delta = -1
		}
		d.field = (d.field + delta + len(d.fields)) % len(d.fields)
		if batchSetOnly[d.fields[d.field]] {
			d.mode = 0
		}
		return d, nil
	case "enter":
		field := d.fields[d.field]
		raw := strings.TrimSpace(d.input.Value())
		if batchSetOnly[field] {
			if raw == "" {
				d.errMsg = "value must not be empty"
				return d, nil
			}
			return d, func() tea.Msg { return BatchSetMsg{Field: field, Value: raw} }
		}
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			d.errMsg = "amount must be a whole number"
			return d, nil
		}
		mod := session.Modifier{Mode: batchModes[d.mode].mode, Value: value}
		return d, func() tea.Msg { return BatchAppliedMsg{Field: field, Modifier: mod} }
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

// View renders the dialog box.
func (d BatchDialog) View() string {
	var sb strings.Builder
	sb.WriteString(d.styles.Bold.Render(fmt.Sprintf("Batch edit %d teams", d.count)) + "\n\n")

	for i, f := range d.fields {
		marker := "  "
		label := d.styles.Body.Render(fieldLabel(f))
		if i == d.field {
			marker = d.styles.Success.Render("> ")
			label = d.styles.Bold.Render(fieldLabel(f))
		}
		sb.WriteString(marker + label + "\n")
	}
	sb.WriteString("\n")

	if batchSetOnly[d.fields[d.field]] {
		sb.WriteString(d.styles.Badge.Render("set to") + "  " + d.input.View() + "\n\n")
	} else {
		modes := make([]string, len(batchModes))
		for i, bm := range batchModes {
			if i == d.mode {
				modes[i] = d.styles.Badge.Render(bm.label)
			} else {
				modes[i] = d.styles.Muted.Render(bm.label)
			}
		}
		sb.WriteString(strings.Join(modes, " ") + "  " + d.input.View() + "\n\n")
	}

	if d.errMsg != "" {
		sb.WriteString(d.styles.Error.Render(d.errMsg) + "\n")
	}
	sb.WriteString(d.styles.Muted.Render("↑↓: field  ←→: mode  enter: stage  esc: cancel"))

	return d.styles.Dialog.Render(sb.String())
}
