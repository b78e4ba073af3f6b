package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmResultMsg carries the answer of a confirm dialog.
type ConfirmResultMsg struct {
	Tag string
	OK  bool
}

// ConfirmDialog is a modal yes/no question.
type ConfirmDialog struct {
	styles   Styles
	Tag      string
	Question string
}

// NewConfirmDialog creates a confirm dialog. Tag identifies the question to
// whoever receives the result.
func NewConfirmDialog(styles Styles, tag, question string) ConfirmDialog {
	return ConfirmDialog{styles: styles, Tag: tag, Question: question}
}

// Update handles the dialog keys.
func (d ConfirmDialog) Update(msg tea.Msg) (ConfirmDialog, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch key.String() {
	case "y", "Y", "enter":
		return d, func() tea.Msg { return ConfirmResultMsg{Tag: d.Tag, OK: true} }
	case "n", "N", "esc":
		return d, func() tea.Msg { return ConfirmResultMsg{Tag: d.Tag, OK: false} }
	}
	return d, nil
}

// View renders the dialog box.
func (d ConfirmDialog) View() string {
	body := d.styles.Bold.Render(d.Question) + "\n\n" +
		d.styles.Muted.Render("y: yes   n: no")
	return d.styles.Dialog.Render(body)
}

// PromptResultMsg carries the committed text of a prompt dialog.
type PromptResultMsg struct {
	Tag   string
	Value string
	OK    bool
}

// PromptDialog is a modal single-line text prompt, used for file paths.
type PromptDialog struct {
	styles Styles
	Tag    string
	Title  string
	input  textinput.Model
}

// NewPromptDialog creates a prompt dialog pre-filled with initial.
func NewPromptDialog(styles Styles, tag, title, initial string) (PromptDialog, tea.Cmd) {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 48
	ti.SetValue(initial)
	d := PromptDialog{styles: styles, Tag: tag, Title: title, input: ti}
	return d, d.input.Focus()
}

// Update handles the dialog keys.
func (d PromptDialog) Update(msg tea.Msg) (PromptDialog, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			value := d.input.Value()
			return d, func() tea.Msg { return PromptResultMsg{Tag: d.Tag, Value: value, OK: true} }
		case "esc":
			return d, func() tea.Msg { return PromptResultMsg{Tag: d.Tag, OK: false} }
		}
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

// View renders the dialog box.
func (d PromptDialog) View() string {
	body := d.styles.Bold.Render(d.Title) + "\n\n" +
		d.input.View() + "\n\n" +
		d.styles.Muted.Render("enter: ok   esc: cancel")
	return d.styles.Dialog.Render(body)
}

// overlay centers content in the given area.
func overlay(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
