package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"cfsedit/internal/session"
	"cfsedit/internal/types"
)

func sampleTeams() []types.Team {
	return []types.Team{
		{ID: 1, Name: "Arsenal", Wealth: 5000, FoundYear: 1886, Location: "London",
			SupporterCount: 60000, StadiumName: "Emirates", Nickname: "Gunners", LeagueID: 1},
		{ID: 2, Name: "Everton", Wealth: 1200, FoundYear: 1878, Location: "Liverpool",
			SupporterCount: 39000, StadiumName: "Goodison", Nickname: "Toffees", LeagueID: 1},
	}
}

func TestThemeByName(t *testing.T) {
	if !ThemeByName("dark").IsDark {
		t.Fatalf("expected dark theme")
	}
	if ThemeByName("light").IsDark {
		t.Fatalf("expected light theme")
	}
}

func TestTeamListRendersAndNavigates(t *testing.T) {
	m := NewTeamListModel(DefaultStyles())
	m.SetSize(60, 24)
	m.Focus()
	m.SetTeams(sampleTeams(), map[int64]string{1: "Premier"})

	view := m.View()
	if !strings.Contains(view, "Arsenal") || !strings.Contains(view, "Premier") {
		t.Fatalf("expected team rows in view, got:\n%s", view)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	id, ok := m.CurrentID()
	if !ok || id != 2 {
		t.Fatalf("expected cursor on team 2, got %d", id)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected selection command")
	}
	if msg, ok := cmd().(TeamSelectedMsg); !ok || msg.ID != 2 {
		t.Fatalf("expected TeamSelectedMsg for team 2, got %v", cmd())
	}
}

func TestTeamListMarking(t *testing.T) {
	m := NewTeamListModel(DefaultStyles())
	m.SetSize(60, 24)
	m.Focus()
	m.SetTeams(sampleTeams(), nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if len(m.Marked()) != 1 {
		t.Fatalf("expected one marked team, got %v", m.Marked())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if len(m.Marked()) != 0 {
		t.Fatalf("expected mark toggled off, got %v", m.Marked())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if len(m.Marked()) != 2 {
		t.Fatalf("expected all visible teams marked, got %v", m.Marked())
	}
}

func TestTeamListFilterEmitsReload(t *testing.T) {
	m := NewTeamListModel(DefaultStyles())
	m.SetSize(60, 24)
	m.Focus()
	m.SetTeams(sampleTeams(), nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.Filtering() {
		t.Fatalf("expected filter input focused after /")
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd == nil {
		t.Fatalf("expected command after filter keystroke")
	}
	found := false
	for _, msg := range drain(cmd) {
		if _, ok := msg.(FilterChangedMsg); ok {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected FilterChangedMsg after typing in filter")
	}
	if m.Filter().Query != "x" {
		t.Fatalf("expected filter query 'x', got %q", m.Filter().Query)
	}
}

func TestDetailFormCommitEmitsEdit(t *testing.T) {
	m := NewDetailModel(DefaultStyles(), true)
	m.SetSize(60, 30)
	m.SetTeam(sampleTeams()[0], false)
	m.Focus()

	view := m.View()
	if !strings.Contains(view, "Arsenal") || !strings.Contains(view, "Wealth") {
		t.Fatalf("expected form fields in view, got:\n%s", view)
	}

	// Type into the name field and commit with enter.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'!'}})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected commit command")
	}
	msg, ok := cmd().(FieldEditedMsg)
	if !ok || msg.Field != types.FieldName {
		t.Fatalf("expected FieldEditedMsg for name, got %v", cmd())
	}
	if !strings.Contains(msg.Value, "!") {
		t.Fatalf("expected edited value, got %q", msg.Value)
	}
}

func TestDetailFormHidesReputationOnOldSaves(t *testing.T) {
	withRep := NewDetailModel(DefaultStyles(), true)
	withoutRep := NewDetailModel(DefaultStyles(), false)
	if len(withRep.fields) != len(withoutRep.fields)+1 {
		t.Fatalf("expected reputation field dropped for old saves")
	}
}

func TestBatchDialogStagesModifier(t *testing.T) {
	d, _ := NewBatchDialog(DefaultStyles(), 3, true)

	for _, r := range "25" {
		d, _ = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	// Switch mode to "add".
	d, _ = d.Update(tea.KeyMsg{Type: tea.KeyRight})
	d, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected commit command")
	}
	msg, ok := cmd().(BatchAppliedMsg)
	if !ok {
		t.Fatalf("expected BatchAppliedMsg, got %v", cmd())
	}
	if msg.Modifier.Mode != session.ModifierAdd || msg.Modifier.Value != 25 {
		t.Fatalf("unexpected modifier: %+v", msg.Modifier)
	}
	if msg.Field != types.FieldWealth {
		t.Fatalf("expected wealth field by default, got %s", msg.Field)
	}
}

func TestBatchDialogRejectsJunkAmount(t *testing.T) {
	d, _ := NewBatchDialog(DefaultStyles(), 1, false)
	d, _ = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	d, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("expected no commit for junk amount")
	}
	if !strings.Contains(d.View(), "whole number") {
		t.Fatalf("expected validation message in view")
	}
}

func TestBatchDialogSetsLocationVerbatim(t *testing.T) {
	d, _ := NewBatchDialog(DefaultStyles(), 2, true)

	// wealth, supporters, reputation, location.
	for i := 0; i < 3; i++ {
		d, _ = d.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	for _, r := range "Madrid" {
		d, _ = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	d, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected commit command")
	}
	msg, ok := cmd().(BatchSetMsg)
	if !ok {
		t.Fatalf("expected BatchSetMsg, got %v", cmd())
	}
	if msg.Field != types.FieldLocation || msg.Value != "Madrid" {
		t.Fatalf("unexpected set: %+v", msg)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"Arsenal", 10, "Arsenal"},
		{"Arsenal", 4, "Ars…"},
		{"São Paulo", 4, "São…"},
		{"Спартак", 5, "Спар…"},
		{"Спартак", 1, "С"},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.max)
		if got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tc.in, tc.max)
		}
	}
}

func TestPromptDialogAcceptsTypedInput(t *testing.T) {
	d, _ := NewPromptDialog(DefaultStyles(), "export", "Export path", "")
	if !d.input.Focused() {
		t.Fatalf("expected the prompt input to be focused")
	}
	for _, r := range "out.csv" {
		d, _ = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	d, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected commit command")
	}
	msg, ok := cmd().(PromptResultMsg)
	if !ok || !msg.OK || msg.Value != "out.csv" {
		t.Fatalf("unexpected result: %+v", cmd())
	}
}

func TestBatchDialogInputFocused(t *testing.T) {
	d, _ := NewBatchDialog(DefaultStyles(), 1, true)
	if !d.input.Focused() {
		t.Fatalf("expected the amount input to be focused")
	}
}

func TestChartPageCyclesMetrics(t *testing.T) {
	m := NewChartModel(DefaultStyles())
	m.SetSize(80, 24)
	m.SetTeams(sampleTeams(), map[int64]string{1: "Premier"})

	if !strings.Contains(m.View(), "Wealth distribution") {
		t.Fatalf("expected wealth chart first")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !strings.Contains(m.View(), "Supporter distribution") {
		t.Fatalf("expected supporter chart after tab")
	}
}

func TestSimpleTableRendering(t *testing.T) {
	table := NewSimpleTable("Leagues", []string{"Bucket", "Teams"})
	table.AddRow("Premier", "2")
	out := table.View(DefaultStyles())
	if !strings.Contains(out, "Leagues") || !strings.Contains(out, "Premier") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}

func TestStaffPaneEditFlow(t *testing.T) {
	m := NewStaffModel(DefaultStyles())
	m.SetSize(60, 20)
	m.Focus()
	m.SetStaff([]types.Staff{{ID: 10, Name: "Arteta", AbilityJSON: `{"rawAbility":80}`, Fame: 90, TeamID: 1}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Editing() {
		t.Fatalf("expected edit form open")
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected staff save command")
	}
	msg, ok := cmd().(StaffSavedMsg)
	if !ok {
		t.Fatalf("expected StaffSavedMsg, got %v", cmd())
	}
	if msg.Staff.Name != "Arteta" || msg.Staff.Fame != 90 {
		t.Fatalf("unexpected staff record: %+v", msg.Staff)
	}
	ability, err := msg.Staff.Ability()
	if err != nil || ability != 80 {
		t.Fatalf("expected ability preserved, got %d (%v)", ability, err)
	}
}

// drain runs a command (and any batch it contains) and collects the
// produced messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}
