package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cfsedit/internal/stats"
	"cfsedit/internal/types"
)

// chartMetric selects which distribution the chart page shows.
type chartMetric int

const (
	chartWealth chartMetric = iota
	chartSupporters
	chartLocation
	chartLeague
	chartDecade
	chartMetricCount
)

var chartTitles = map[chartMetric]string{
	chartWealth:     "Wealth distribution",
	chartSupporters: "Supporter distribution",
	chartLocation:   "Teams per location",
	chartLeague:     "Teams per league",
	chartDecade:     "Founding decades",
}

var chartColors = []lipgloss.Color{Chart1, Chart2, Chart3, Chart4, Chart5}

// ChartModel is the full-screen statistics page. Long tail distributions
// (location) scroll inside a viewport.
type ChartModel struct {
	styles Styles
	width  int
	height int
	vp     viewport.Model

	teams       []types.Team
	leagueNames map[int64]string
	metric      chartMetric
}

// NewChartModel creates the chart page.
func NewChartModel(styles Styles) ChartModel {
	return ChartModel{styles: styles, vp: viewport.New(0, 0)}
}

// SetSize updates the page dimensions.
func (m *ChartModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.Width = width
	// Title line, blank line, blank line plus footer.
	m.vp.Height = height - 4
	if m.vp.Height < 1 {
		m.vp.Height = 1
	}
	m.vp.SetContent(m.renderBars())
}

// SetTeams sets the data the distributions are computed from. Charts follow
// the active filter, so a filtered list charts only what it shows.
func (m *ChartModel) SetTeams(teams []types.Team, names map[int64]string) {
	m.teams = teams
	m.leagueNames = names
	m.vp.SetContent(m.renderBars())
}

// Update handles the chart page keys. Unhandled keys fall through to the
// viewport for scrolling.
func (m ChartModel) Update(msg tea.Msg) (ChartModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "left", "h":
		m.metric = (m.metric - 1 + chartMetricCount) % chartMetricCount
		m.vp.SetContent(m.renderBars())
		m.vp.GotoTop()
	case "right", "l", "tab":
		m.metric = (m.metric + 1) % chartMetricCount
		m.vp.SetContent(m.renderBars())
		m.vp.GotoTop()
	default:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ChartModel) buckets() []stats.Bucket {
	switch m.metric {
	case chartSupporters:
		return stats.SupporterDistribution(m.teams)
	case chartLocation:
		return stats.ByLocation(m.teams)
	case chartLeague:
		return stats.ByLeague(m.teams, m.leagueNames)
	case chartDecade:
		return stats.FoundingDecades(m.teams)
	}
	return stats.WealthDistribution(m.teams)
}

func (m ChartModel) renderBars() string {
	buckets := m.buckets()
	max := stats.Max(buckets)
	total := stats.Total(buckets)

	labelWidth := 0
	for _, b := range buckets {
		if w := lipgloss.Width(b.Label); w > labelWidth {
			labelWidth = w
		}
	}
	barSpace := m.width - labelWidth - 18
	if barSpace < 10 {
		barSpace = 10
	}

	var sb strings.Builder
	for i, b := range buckets {
		barLen := 0
		if max > 0 {
			barLen = b.Count * barSpace / max
		}
		if b.Count > 0 && barLen == 0 {
			barLen = 1
		}
		bar := m.styles.Bar.Foreground(chartColors[i%len(chartColors)]).
			Render(strings.Repeat("█", barLen))
		sb.WriteString(fmt.Sprintf("%*s  %s %d (%d%%)\n",
			labelWidth, b.Label, bar, b.Count, stats.Percent(b.Count, total)))
	}
	return sb.String()
}

// View renders the page.
func (m ChartModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(chartTitles[m.metric]))
	sb.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("  (%d teams)", len(m.teams))) + "\n\n")
	sb.WriteString(m.vp.View())
	sb.WriteString("\n" + m.styles.Muted.Render("←→: metric  ↑↓: scroll  c/esc: back to editor"))
	return sb.String()
}
