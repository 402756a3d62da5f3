// Package mistakes is the mistake notebook: questions answered wrong in
// past sessions, with their solutions.
package mistakes

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

const pageSize = 20

type mistakesLoadedMsg struct {
	Mistakes *api.MistakeListResponse
	Offset   int
	Err      error
}

type solutionLoadedMsg struct {
	QuestionID int
	Solution   *api.QuestionWithAnswer
	Err        error
}

// MistakesScreen lists mistake notes and expands solutions inline.
type MistakesScreen struct {
	client *api.Client

	notes  []api.MistakeNote
	total  int
	offset int

	// showMastered widens the filter to include mastered notes.
	showMastered bool

	selected int
	expanded map[int]bool

	// solutions caches full solutions by question ID. The list payload
	// trims explanations, so an expand fetches the complete record once.
	solutions map[int]*api.QuestionWithAnswer

	loaded  bool
	loading bool
	errMsg  string
}

var _ screen.Screen = (*MistakesScreen)(nil)
var _ screen.KeyHintProvider = (*MistakesScreen)(nil)

// New creates a new MistakesScreen.
func New(client *api.Client) *MistakesScreen {
	return &MistakesScreen{
		client:    client,
		expanded:  make(map[int]bool),
		solutions: make(map[int]*api.QuestionWithAnswer),
	}
}

func (s *MistakesScreen) Init() tea.Cmd {
	return s.load(0)
}

func (s *MistakesScreen) load(offset int) tea.Cmd {
	s.loading = true
	client := s.client
	var mastered *bool
	if !s.showMastered {
		f := false
		mastered = &f
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := client.Mistakes(ctx, pageSize, offset, mastered)
		return mistakesLoadedMsg{Mistakes: resp, Offset: offset, Err: err}
	}
}

// fetchSolution loads the full solution for a question unless cached.
func (s *MistakesScreen) fetchSolution(questionID int) tea.Cmd {
	if _, ok := s.solutions[questionID]; ok {
		return nil
	}
	client := s.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sol, err := client.Solution(ctx, questionID)
		return solutionLoadedMsg{QuestionID: questionID, Solution: sol, Err: err}
	}
}

func (s *MistakesScreen) Title() string {
	return "Mistake Notes"
}

func (s *MistakesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Solution"},
		{Key: "M", Description: "Show mastered"},
		{Key: "←→", Description: "Page"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *MistakesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case mistakesLoadedMsg:
		s.loading = false
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = api.Message(msg.Err, "Could not load mistake notes.")
			return s, nil
		}
		s.errMsg = ""
		s.notes = msg.Mistakes.Mistakes
		s.total = msg.Mistakes.Count
		s.offset = msg.Offset
		s.selected = 0
		s.expanded = make(map[int]bool)
		return s, nil

	case solutionLoadedMsg:
		if msg.Err == nil && msg.Solution != nil {
			s.solutions[msg.QuestionID] = msg.Solution
		}
		// On failure the embedded list record keeps rendering.
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *MistakesScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.loading {
		return s, nil
	}

	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.notes)-1 {
			s.selected++
		}
	case "enter":
		s.expanded[s.selected] = !s.expanded[s.selected]
		if s.expanded[s.selected] && s.selected < len(s.notes) {
			if cmd := s.fetchSolution(s.notes[s.selected].Question.QuestionID); cmd != nil {
				return s, cmd
			}
		}
	case "m", "M":
		s.showMastered = !s.showMastered
		return s, s.load(0)
	case "right", "l":
		if s.offset+pageSize < s.total {
			return s, s.load(s.offset + pageSize)
		}
	case "left", "h":
		if s.offset > 0 {
			next := s.offset - pageSize
			if next < 0 {
				next = 0
			}
			return s, s.load(next)
		}
	}
	return s, nil
}

func (s *MistakesScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded || s.loading {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading mistake notes...")
	}
	if len(s.notes) == 0 {
		text := "\n\n  No mistakes recorded. Keep it up!"
		if s.showMastered {
			text = "\n\n  Nothing here yet."
		}
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render(text)
	}

	var b strings.Builder
	b.WriteString("\n")

	filter := "unmastered"
	if s.showMastered {
		filter = "all"
	}
	pageEnd := s.offset + len(s.notes)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
			Render(fmt.Sprintf("%d-%d of %d (%s)", s.offset+1, pageEnd, s.total, filter))))
	b.WriteString("\n\n")

	for i, note := range s.notes {
		b.WriteString(s.renderNote(width, i, note))
	}

	return b.String()
}

func (s *MistakesScreen) renderNote(width, i int, note api.MistakeNote) string {
	var b strings.Builder

	prefix := "  "
	if i == s.selected {
		prefix = "> "
	}
	badge := ""
	if note.Mastered {
		badge = "  [mastered]"
	}

	line := fmt.Sprintf("%s%s  wrong x%d%s",
		prefix, truncate(note.Question.QuestionText, width-24), note.MistakeCount, badge)

	style := lipgloss.NewStyle().Foreground(theme.Text)
	if note.Mastered {
		style = lipgloss.NewStyle().Foreground(theme.TextDim)
	}
	if i == s.selected {
		style = style.Foreground(theme.Primary).Bold(true)
	}
	b.WriteString("  " + style.Render(line))
	b.WriteString("\n")

	if s.expanded[i] {
		q := note.Question
		if sol, ok := s.solutions[q.QuestionID]; ok {
			q = *sol
		}
		b.WriteString(s.renderSolution(width, q))
	}

	return b.String()
}

func (s *MistakesScreen) renderSolution(width int, q api.QuestionWithAnswer) string {
	var lines []string
	for _, label := range []string{"a", "b", "c", "d"} {
		text := optionText(q, label)
		entry := fmt.Sprintf("%s)  %s", strings.ToUpper(label), text)
		if strings.EqualFold(q.CorrectAnswer, label) {
			lines = append(lines, theme.Correct.Render(entry))
		} else {
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render(entry))
		}
	}
	if q.Explanation != nil && *q.Explanation != "" {
		lines = append(lines, "")
		lines = append(lines, lipgloss.NewStyle().
			Width(min(width-16, 66)).Foreground(theme.Text).
			Render(*q.Explanation))
	}

	card := theme.Card.Width(min(width-12, 70)).Render(strings.Join(lines, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card) + "\n"
}

func optionText(q api.QuestionWithAnswer, label string) string {
	switch label {
	case "a":
		return q.OptionA
	case "b":
		return q.OptionB
	case "c":
		return q.OptionC
	case "d":
		return q.OptionD
	}
	return ""
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
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
