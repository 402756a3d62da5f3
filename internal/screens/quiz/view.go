package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	flow "github.com/HeoJaeryoung/aice-project/internal/quiz"
	"github.com/HeoJaeryoung/aice-project/internal/ui/components"
	"github.com/HeoJaeryoung/aice-project/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.flow == nil {
		if s.errMsg != "" {
			return renderError(width, s.errMsg)
		}
		return renderLoading(width, "Loading topics...")
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	switch s.flow.Phase {
	case flow.PhaseInProgress:
		return s.renderQuestion(width)
	case flow.PhaseResult:
		return s.renderResult(width)
	default:
		return s.renderSetup(width)
	}
}

func (s *QuizScreen) renderSetup(width int) string {
	if s.creating {
		return renderLoading(width, "Preparing your quiz...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("New Quiz"))
	b.WriteString("\n\n")

	var prompt string
	var entries []string
	var sel int

	switch s.setupStep {
	case stepTopic:
		prompt = "Choose a topic"
		entries = append(entries, "All topics")
		for _, t := range s.flow.Topics {
			entries = append(entries, t.Name)
		}
		sel = s.topicSel
	case stepDifficulty:
		prompt = "Choose a difficulty"
		entries = flow.Difficulties
		sel = s.diffSel
	default:
		prompt = "How many questions?"
		for _, n := range flow.QuestionCounts {
			entries = append(entries, fmt.Sprintf("%d questions", n))
		}
		sel = s.countSel
	}

	b.WriteString(theme.Subtitle.Width(width).Render(prompt))
	b.WriteString("\n\n")

	var list strings.Builder
	for i, entry := range entries {
		if i == sel {
			list.WriteString(theme.Selected.Render("▸ " + entry))
		} else {
			list.WriteString(theme.Unselected.Render("  " + entry))
		}
		list.WriteString("\n")
	}
	card := theme.Card.Width(min(width-8, 50)).Render(strings.TrimRight(list.String(), "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(s.errMsg))
	}

	return b.String()
}

func (s *QuizScreen) renderQuestion(width int) string {
	q := s.flow.Current()
	if q == nil {
		return renderLoading(width, "Loading question...")
	}

	var b strings.Builder

	elapsed := s.flow.ElapsedSeconds()
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", s.flow.Index+1, len(s.flow.Questions)))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("correct %d  %s %d:%02d",
			s.flow.CorrectCount,
			lipgloss.NewStyle().Foreground(theme.Accent).Render("T"),
			elapsed/60, elapsed%60,
		))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	questionStyle := lipgloss.NewStyle().
		Width(min(width-8, 76)).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, questionStyle.Render(q.QuestionText)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))

	if s.flow.Answered() {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(width))
	} else if s.submitting {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("Checking..."))
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(s.errMsg))
	}

	return b.String()
}

func (s *QuizScreen) renderFeedback(width int) string {
	res := s.flow.Result
	var b strings.Builder

	if res.IsCorrect {
		b.WriteString(theme.Correct.Width(width).Align(lipgloss.Center).Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Width(width).Align(lipgloss.Center).Render("Incorrect"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("Correct answer: %s", strings.ToUpper(res.CorrectAnswer))))
	}

	if res.Explanation != nil && *res.Explanation != "" {
		b.WriteString("\n\n")
		exp := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(*res.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
	}

	b.WriteString("\n\n")
	label := "Press Enter for the next question"
	if s.flow.IsLast() {
		label = "Press Enter to see your score"
	}
	b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render(label))

	return b.String()
}

func (s *QuizScreen) renderResult(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Quiz Complete"))
	b.WriteString("\n\n")

	total := len(s.flow.Questions)
	accuracy := s.flow.Accuracy()

	score := fmt.Sprintf("%d / %d correct", s.flow.CorrectCount, total)
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
		Render(score))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Accuracy", accuracy/100, true, min(width-12, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	mins := s.flow.TotalSeconds / 60
	secs := s.flow.TotalSeconds % 60
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render(fmt.Sprintf("Time: %d:%02d", mins, secs)))

	switch {
	case s.ending:
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("Saving your session..."))
	case s.serverResult != nil:
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Success).
			Render("Session saved."))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).
		Render("R to try again, Enter to go home"))

	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
		Render("Leave this quiz?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("The session will be closed with your answers so far."))
	b.WriteString("\n\n")
	leave := components.NewButton("Leave (Y)", false, nil)
	stay := components.NewButton("Keep going (N)", true, nil)
	row := lipgloss.JoinHorizontal(lipgloss.Center, leave.View(), "  ", stay.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, row))
	return b.String()
}

func renderLoading(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  " + msg)
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
