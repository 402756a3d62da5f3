// Package history lists past study sessions with overall totals.
package history

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
	"github.com/HeoJaeryoung/aice-project/internal/ui/layout"
	"github.com/HeoJaeryoung/aice-project/internal/ui/theme"
)

const historyLimit = 50

type historyLoadedMsg struct {
	History *api.StudyHistoryResponse
	Err     error
}

// HistoryScreen displays past study sessions.
type HistoryScreen struct {
	client   *api.Client
	history  *api.StudyHistoryResponse
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(client *api.Client) *HistoryScreen {
	return &HistoryScreen{
		client:   client,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	client := s.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		history, err := client.History(ctx, historyLimit)
		return historyLoadedMsg{History: history, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = api.Message(msg.Err, "Could not load history.")
		} else {
			s.history = msg.History
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		if s.errMsg != "" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.history != nil && s.selected < len(s.history.Sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if s.history == nil || len(s.history.Sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start a quiz!")
	}

	var b strings.Builder
	b.WriteString("\n")

	overall := fmt.Sprintf("%d sessions  %d questions  %d correct",
		s.history.TotalSessions, s.history.TotalQuestions, s.history.TotalCorrect)
	if s.history.OverallAccuracy != nil {
		overall += fmt.Sprintf("  %.0f%% overall", *s.history.OverallAccuracy)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(overall)))
	b.WriteString("\n\n")

	for i, sess := range s.history.Sessions {
		b.WriteString(s.renderSession(width, i, sess))
	}

	return b.String()
}

func (s *HistoryScreen) renderSession(width, i int, sess api.Session) string {
	var b strings.Builder

	dateStr := sess.StartedAt
	if t, err := time.Parse(time.RFC3339, sess.StartedAt); err == nil {
		dateStr = t.Format("Jan 02, 2006")
	}

	topicName := "All topics"
	if sess.TopicName != nil {
		topicName = *sess.TopicName
	}

	var accuracy float64
	if sess.AccuracyRate != nil {
		accuracy = *sess.AccuracyRate
	} else if sess.QuestionsAttempted > 0 {
		accuracy = float64(sess.CorrectAnswers) / float64(sess.QuestionsAttempted) * 100
	}

	prefix := "  "
	if i == s.selected {
		prefix = "> "
	}

	line := fmt.Sprintf("%s%s  %-20s  %d/%d  %.0f%% accuracy",
		prefix, dateStr, topicName, sess.CorrectAnswers, sess.QuestionsAttempted, accuracy)

	style := lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		style = style.Foreground(theme.Primary).Bold(true)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
	b.WriteString("\n")

	if s.expanded[i] {
		var details []string
		if sess.Difficulty != nil {
			details = append(details, fmt.Sprintf("difficulty %s", *sess.Difficulty))
		}
		if sess.DurationSeconds != nil {
			details = append(details, fmt.Sprintf("duration %d:%02d",
				*sess.DurationSeconds/60, *sess.DurationSeconds%60))
		}
		details = append(details, fmt.Sprintf("status %s", sess.Status))

		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("    "+strings.Join(details, "   "))))
		b.WriteString("\n")
	}

	return b.String()
}
