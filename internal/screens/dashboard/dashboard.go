// Package dashboard shows aggregate study statistics: overall totals,
// per-topic accuracy, and the last week of activity.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/HeoJaeryoung/aice-project/internal/api"
	"github.com/HeoJaeryoung/aice-project/internal/router"
	"github.com/HeoJaeryoung/aice-project/internal/screen"
	"github.com/HeoJaeryoung/aice-project/internal/ui/components"
	"github.com/HeoJaeryoung/aice-project/internal/ui/layout"
	"github.com/HeoJaeryoung/aice-project/internal/ui/theme"
)

// dashboardLoadedMsg carries all three stat groups in one fetch.
type dashboardLoadedMsg struct {
	Summary *api.DashboardSummary
	Topics  *api.TopicStatsResponse
	Weekly  *api.WeeklyStatsResponse
	Err     error
}

// DashboardScreen displays study statistics.
type DashboardScreen struct {
	client  *api.Client
	summary *api.DashboardSummary
	topics  *api.TopicStatsResponse
	weekly  *api.WeeklyStatsResponse
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates a new DashboardScreen.
func New(client *api.Client) *DashboardScreen {
	return &DashboardScreen{client: client}
}

func (s *DashboardScreen) Init() tea.Cmd {
	client := s.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		summary, err := client.Summary(ctx)
		if err != nil {
			return dashboardLoadedMsg{Err: err}
		}
		// The breakdowns are optional; the dashboard still renders
		// from the summary alone if either fails.
		topics, _ := client.TopicStats(ctx)
		weekly, _ := client.WeeklyStats(ctx)
		return dashboardLoadedMsg{Summary: summary, Topics: topics, Weekly: weekly}
	}
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.Err != nil {
			s.errMsg = api.Message(msg.Err, "Could not load the dashboard.")
		} else {
			s.summary = msg.Summary
			s.topics = msg.Topics
			s.weekly = msg.Weekly
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		if s.errMsg != "" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *DashboardScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s\n\nPress any key to go back.", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading statistics...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderSummary(width))

	if s.topics != nil && len(s.topics.Stats) > 0 {
		b.WriteString("\n\n")
		b.WriteString(s.renderTopics(width))
	}
	if s.weekly != nil && len(s.weekly.DailyStats) > 0 {
		b.WriteString("\n\n")
		b.WriteString(s.renderWeekly(width))
	}
	return b.String()
}

func (s *DashboardScreen) renderSummary(width int) string {
	sum := s.summary

	accuracy := 0.0
	if sum.AccuracyRate != nil {
		accuracy = *sum.AccuracyRate
	}
	hours := sum.TotalStudyTimeSeconds / 3600
	mins := (sum.TotalStudyTimeSeconds % 3600) / 60

	lines := []string{
		fmt.Sprintf("Questions answered   %d", sum.TotalQuestions),
		fmt.Sprintf("Correct              %d  (%.0f%%)", sum.TotalCorrect, accuracy),
		fmt.Sprintf("Sessions             %d", sum.TotalSessions),
		fmt.Sprintf("Study time           %dh %02dm", hours, mins),
		fmt.Sprintf("Current streak       %d days", sum.CurrentStreak),
		fmt.Sprintf("Open mistakes        %d", sum.MistakeCount),
	}

	card := theme.Card.Width(min(width-8, 46)).
		Render(strings.Join(lines, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func (s *DashboardScreen) renderTopics(width int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Width(width).Render("Accuracy by topic"))
	b.WriteString("\n\n")

	barWidth := min(width-12, 56)
	for _, st := range s.topics.Stats {
		rate := 0.0
		if st.AccuracyRate != nil {
			rate = *st.AccuracyRate
		}
		label := fmt.Sprintf("%-24s", truncate(st.TopicName, 24))
		bar := components.NewProgressBar(label, rate/100, true, barWidth)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *DashboardScreen) renderWeekly(width int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Width(width).Render("Last 7 days"))
	b.WriteString("\n\n")

	for _, d := range s.weekly.DailyStats {
		day := d.Date
		if t, err := time.Parse("2006-01-02", d.Date); err == nil {
			day = t.Format("Mon Jan 02")
		}
		line := fmt.Sprintf("%-12s %3d answered  %3d correct", day, d.QuestionsCount, d.CorrectCount)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if d.QuestionsCount == 0 {
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
