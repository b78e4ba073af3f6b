package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cfsedit/internal/config"
	"cfsedit/internal/export"
	"cfsedit/internal/logging"
	"cfsedit/internal/logo"
	"cfsedit/internal/session"
	"cfsedit/internal/store"
	"cfsedit/internal/types"
)

type page int

const (
	pageEditor page = iota
	pageChart
)

type focusArea int

const (
	focusList focusArea = iota
	focusDetail
	focusStaff
)

// Messages produced by background commands.
type (
	teamsLoadedMsg struct {
		teams []types.Team
		names map[int64]string
		err   error
	}
	teamDetailMsg struct {
		team    types.Team
		staff   []types.Staff
		hasLogo bool
		err     error
	}
	savedMsg struct {
		result store.BatchResult
		err    error
	}
	staffPersistedMsg struct {
		err error
	}
	exportDoneMsg struct {
		count int
		path  string
		err   error
	}
	logoDoneMsg struct {
		teamID int64
		err    error
	}
	autoSaveTickMsg time.Time
)

// Model is the root application model.
type Model struct {
	styles Styles
	layout LayoutConfig

	sess *session.Session
	cfg  config.Config

	page  page
	focus focusArea

	teamList TeamListModel
	detail   DetailModel
	staff    StaffModel
	chart    ChartModel

	batch   *BatchDialog
	confirm *ConfirmDialog
	prompt  *PromptDialog

	spin    spinner.Model
	loading bool

	status    string
	statusErr bool
}

// NewModel builds the root model over an open session.
func NewModel(sess *session.Session, cfg config.Config) Model {
	styles := NewStyles(ThemeByName(cfg.UI.Theme))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := Model{
		styles:   styles,
		sess:     sess,
		cfg:      cfg,
		teamList: NewTeamListModel(styles),
		detail:   NewDetailModel(styles, sess.Store().HasReputation()),
		staff:    NewStaffModel(styles),
		chart:    NewChartModel(styles),
		spin:     sp,
		loading:  true,
	}
	m.teamList.Focus()
	return m
}

// Run opens the interface over an open session and blocks until exit.
func Run(sess *session.Session, cfg config.Config) error {
	logging.UI("Starting interface for %s", sess.Store().Path())
	p := tea.NewProgram(
		NewModel(sess, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	logging.UI("Interface closed")
	return err
}

// Init kicks off the initial load, the spinner and the auto-save clock.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadTeamsCmd(), m.spin.Tick}
	if m.cfg.Editing.AutoSave {
		cmds = append(cmds, m.autoSaveTick())
	}
	return tea.Batch(cmds...)
}

func (m Model) loadTeamsCmd() tea.Cmd {
	filter := m.teamList.Filter()
	return func() tea.Msg {
		ctx := context.Background()
		teams, err := m.sess.Store().ListTeams(ctx, filter)
		if err != nil {
			return teamsLoadedMsg{err: err}
		}
		names, err := m.sess.Store().LeagueNames(ctx)
		if err != nil {
			return teamsLoadedMsg{err: err}
		}
		return teamsLoadedMsg{teams: teams, names: names}
	}
}

func (m Model) selectTeamCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		team, err := m.sess.Select(ctx, id)
		if err != nil {
			return teamDetailMsg{err: err}
		}
		staff, err := m.sess.Store().StaffForTeam(ctx, id)
		if err != nil {
			return teamDetailMsg{err: err}
		}
		return teamDetailMsg{
			team:    team,
			staff:   staff,
			hasLogo: logo.Exists(m.sess.Store().Dir(), id),
		}
	}
}

func (m Model) saveCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := m.sess.Save(context.Background())
		return savedMsg{result: result, err: err}
	}
}

func (m Model) saveStaffCmd(st types.Staff) tea.Cmd {
	return func() tea.Msg {
		return staffPersistedMsg{err: m.sess.SaveStaff(context.Background(), st)}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	filter := m.teamList.Filter()
	return func() tea.Msg {
		n, err := export.ExportFile(context.Background(), m.sess.Store(), filter, path)
		return exportDoneMsg{count: n, path: path, err: err}
	}
}

func (m Model) replaceLogoCmd(teamID int64, srcPath string) tea.Cmd {
	return func() tea.Msg {
		err := logo.Replace(context.Background(), m.sess.Store(), teamID, srcPath, m.cfg.Logo.Size)
		return logoDoneMsg{teamID: teamID, err: err}
	}
}

func (m Model) autoSaveTick() tea.Cmd {
	return tea.Tick(m.cfg.AutoSaveInterval(), func(t time.Time) tea.Msg {
		return autoSaveTickMsg(t)
	})
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
	if isErr {
		logging.UI("Status error: %s", text)
	}
}

func (m *Model) setFocus(area focusArea) {
	m.focus = area
	m.teamList.Blur()
	m.detail.Blur()
	m.staff.Blur()
	switch area {
	case focusList:
		m.teamList.Focus()
	case focusDetail:
		m.detail.Focus()
	case focusStaff:
		m.staff.Focus()
	}
}

// defaultExportPath derives the export target from config, next to the save
// when nothing is configured.
func (m Model) defaultExportPath() string {
	if m.cfg.Export.DefaultPath != "" {
		return m.cfg.Export.DefaultPath
	}
	return filepath.Join(m.sess.Store().Dir(), "teams.csv")
}

// Update is the exact message dispatch for the whole application.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayoutConfig(msg.Width, msg.Height)
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case teamsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("load failed: %v", msg.err), true)
			return m, nil
		}
		m.teamList.SetTeams(msg.teams, msg.names)
		m.chart.SetTeams(msg.teams, msg.names)
		if m.focus == focusList && !m.teamList.Focused() {
			m.teamList.Focus()
		}
		return m, nil

	case teamDetailMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("select failed: %v", msg.err), true)
			return m, nil
		}
		m.detail.SetTeam(msg.team, msg.hasLogo)
		m.staff.SetStaff(msg.staff)
		m.setFocus(focusDetail)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("save: %v", msg.err), true)
		} else if len(msg.result.Applied) > 0 {
			m.detail.MarkClean()
			m.setStatus(fmt.Sprintf("saved %d team(s)", len(msg.result.Applied)), false)
		}
		return m, m.loadTeamsCmd()

	case staffPersistedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("staff save: %v", msg.err), true)
			return m, nil
		}
		m.setStatus("staff saved", false)
		if id, ok := m.detail.Team(); ok {
			return m, m.selectTeamCmd(id)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("export: %v", msg.err), true)
		} else {
			m.setStatus(fmt.Sprintf("exported %d team(s) to %s", msg.count, msg.path), false)
		}
		return m, nil

	case logoDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("logo: %v", msg.err), true)
			return m, nil
		}
		m.setStatus("logo replaced", false)
		if id, ok := m.detail.Team(); ok && id == msg.teamID {
			return m, m.selectTeamCmd(id)
		}
		return m, nil

	case autoSaveTickMsg:
		cmds := []tea.Cmd{m.autoSaveTick()}
		if m.sess.Dirty() {
			logging.UI("Auto-save triggered")
			cmds = append(cmds, m.saveCmd())
		}
		return m, tea.Batch(cmds...)

	case TeamSelectedMsg:
		return m, m.selectTeamCmd(msg.ID)

	case FilterChangedMsg:
		return m, m.loadTeamsCmd()

	case FieldEditedMsg:
		if err := m.sess.SetField(msg.Field, msg.Value); err != nil {
			m.setStatus(err.Error(), true)
			m.detail.RevertField(msg.Field)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("%s staged (ctrl+s to save)", fieldLabel(msg.Field)), false)
		return m, nil

	case StaffSavedMsg:
		return m, m.saveStaffCmd(msg.Staff)

	case BatchAppliedMsg:
		m.batch = nil
		if err := m.sess.ApplyModifier(msg.Field, msg.Modifier); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("batch change staged for %d team(s), ctrl+s to save",
			len(m.sess.Selected())), false)
		return m, nil

	case BatchSetMsg:
		m.batch = nil
		if err := m.sess.SetField(msg.Field, msg.Value); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("batch change staged for %d team(s), ctrl+s to save",
			len(m.sess.Selected())), false)
		return m, nil

	case BatchCancelledMsg:
		m.batch = nil
		return m, nil

	case ConfirmResultMsg:
		m.confirm = nil
		switch msg.Tag {
		case "quit":
			if msg.OK {
				return m, tea.Quit
			}
		case "discard":
			if msg.OK {
				m.sess.Discard()
				m.setStatus("staged edits discarded", false)
				if id, ok := m.detail.Team(); ok {
					return m, m.selectTeamCmd(id)
				}
			}
		}
		return m, nil

	case PromptResultMsg:
		m.prompt = nil
		if !msg.OK {
			return m, nil
		}
		switch msg.Tag {
		case "export":
			m.setStatus("exporting...", false)
			return m, m.exportCmd(msg.Value)
		case "logo":
			if id, ok := m.detail.Team(); ok {
				return m, m.replaceLogoCmd(id, msg.Value)
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modals swallow everything.
	if m.confirm != nil {
		var cmd tea.Cmd
		*m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	}
	if m.prompt != nil {
		var cmd tea.Cmd
		*m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	if m.batch != nil {
		var cmd tea.Cmd
		*m.batch, cmd = m.batch.Update(msg)
		return m, cmd
	}

	// Global shortcuts work everywhere; control keys never collide with
	// text inputs.
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+s":
		if !m.sess.Dirty() {
			m.setStatus("nothing to save", false)
			return m, nil
		}
		return m, m.saveCmd()
	case "ctrl+e":
		d, cmd := NewPromptDialog(m.styles, "export", "Export filtered teams to", m.defaultExportPath())
		m.prompt = &d
		return m, cmd
	case "ctrl+l":
		if _, ok := m.detail.Team(); !ok {
			m.setStatus("select a team first", true)
			return m, nil
		}
		d, cmd := NewPromptDialog(m.styles, "logo", "Logo image path (png/jpg/gif/bmp)", "")
		m.prompt = &d
		return m, cmd
	case "ctrl+b":
		marked := m.teamList.Marked()
		if len(marked) == 0 {
			m.setStatus("mark teams with space first", true)
			return m, nil
		}
		if err := m.sess.SelectMany(context.Background(), marked); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		d, cmd := NewBatchDialog(m.styles, len(marked), m.sess.Store().HasReputation())
		m.batch = &d
		return m, cmd
	case "ctrl+d":
		if !m.sess.Dirty() {
			return m, nil
		}
		d := NewConfirmDialog(m.styles, "discard", "Discard all staged edits?")
		m.confirm = &d
		return m, nil
	}

	if m.page == pageChart {
		switch msg.String() {
		case "c", "esc", "q":
			m.page = pageEditor
			return m, nil
		}
		var cmd tea.Cmd
		m.chart, cmd = m.chart.Update(msg)
		return m, cmd
	}

	// Keys below only apply when no text input is consuming them.
	typing := m.teamList.Filtering() || (m.focus == focusDetail && m.detail.Editing()) ||
		(m.focus == focusStaff && m.staff.Editing())
	if !typing {
		switch msg.String() {
		case "q":
			return m.requestQuit()
		case "c":
			m.page = pageChart
			return m, nil
		case "s":
			if m.focus == focusList {
				if _, ok := m.detail.Team(); ok {
					m.setFocus(focusStaff)
				}
				return m, nil
			}
		case "esc":
			if m.focus != focusList {
				m.setFocus(focusList)
				return m, nil
			}
		}
	} else if msg.String() == "esc" && m.focus == focusDetail {
		m.setFocus(focusList)
		return m, nil
	}

	// Route to the focused pane.
	var cmd tea.Cmd
	switch m.focus {
	case focusList:
		m.teamList, cmd = m.teamList.Update(msg)
	case focusDetail:
		m.detail, cmd = m.detail.Update(msg)
	case focusStaff:
		m.staff, cmd = m.staff.Update(msg)
	}
	return m, cmd
}

func (m Model) requestQuit() (tea.Model, tea.Cmd) {
	if m.sess.Dirty() && m.cfg.Editing.ConfirmDiscard {
		d := NewConfirmDialog(m.styles, "quit", "Unsaved edits will be lost. Quit anyway?")
		m.confirm = &d
		return m, nil
	}
	return m, tea.Quit
}

func (m *Model) resize() {
	w := m.layout.TerminalWidth
	h := m.layout.ContentHeight()
	left, right := SplitPaneWidths(w)

	m.teamList.SetSize(left, h)
	detailH := h * 2 / 3
	m.detail.SetSize(right, detailH)
	m.staff.SetSize(right, h-detailH)
	m.chart.SetSize(w-4, h)
}

// View renders the whole application.
func (m Model) View() string {
	if m.layout.TerminalWidth == 0 {
		return ""
	}
	if m.layout.TerminalWidth < MinimumTerminalWidth || m.layout.TerminalHeight < MinimumTerminalHeight {
		return m.styles.Warning.Render(
			fmt.Sprintf("terminal too small (need %dx%d)", MinimumTerminalWidth, MinimumTerminalHeight))
	}

	header := m.headerView()

	var body string
	switch {
	case m.loading:
		body = lipgloss.Place(m.layout.TerminalWidth, m.layout.ContentHeight(),
			lipgloss.Center, lipgloss.Center,
			m.spin.View()+" loading teams...")
	case m.page == pageChart:
		body = lipgloss.NewStyle().Padding(1, 2).Render(m.chart.View())
	default:
		rightCol := lipgloss.JoinVertical(lipgloss.Left, m.detail.View(), m.staff.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.teamList.View(), " ", rightCol)
	}

	if m.confirm != nil {
		body = overlay(m.confirm.View(), m.layout.TerminalWidth, m.layout.ContentHeight())
	}
	if m.prompt != nil {
		body = overlay(m.prompt.View(), m.layout.TerminalWidth, m.layout.ContentHeight())
	}
	if m.batch != nil {
		body = overlay(m.batch.View(), m.layout.TerminalWidth, m.layout.ContentHeight())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.statusView(), m.footerView())
}

func (m Model) headerView() string {
	title := fmt.Sprintf(" cfsedit - %s ", filepath.Base(m.sess.Store().Path()))
	header := m.styles.Header.Render(title)
	if m.sess.Dirty() {
		header += " " + m.styles.Badge.Render("UNSAVED")
	}
	return header
}

func (m Model) statusView() string {
	if m.status == "" {
		return m.styles.Footer.Render(m.teamList.StatusLine())
	}
	if m.statusErr {
		return m.styles.Footer.Render(m.styles.Error.Render(m.status))
	}
	return m.styles.Footer.Render(m.styles.Success.Render(m.status))
}

func (m Model) footerView() string {
	help := "enter: edit  space: mark  /: filter  ctrl+b: batch  ctrl+s: save  ctrl+e: export  ctrl+l: logo  c: charts  q: quit"
	if m.page == pageChart {
		help = "←→: metric  c: back  q: quit"
	}
	return m.styles.Footer.Render(help)
}
