package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/HeoJaeryoung/aice-project/internal/ui/theme"
)

// Option is one answer choice, addressed by its lowercase label.
type Option struct {
	Label string // "a".."d"
	Text  string
}

// OptionList is a four-choice answer selector. Unlike a self-grading
// quiz widget, it does not know the correct answer up front: the caller
// locks it with the graded result once the backend responds, and the
// list colors choices from that.
type OptionList struct {
	Options []Option

	// Cursor is the highlighted position.
	Cursor int

	// Chosen is the label of the confirmed selection, "" while none.
	Chosen string

	// Locked prevents any further cursor or selection changes.
	Locked bool

	// CorrectLabel is set together with Locked once grading arrives.
	CorrectLabel string
}

// NewOptionList creates an option list from labeled choices.
func NewOptionList(options []Option) OptionList {
	return OptionList{Options: options}
}

// Update handles keyboard navigation. Arrow keys move the cursor and
// the label keys jump-select directly.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.Locked {
		return o, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	case "a", "b", "c", "d":
		for i, opt := range o.Options {
			if opt.Label == key {
				o.Cursor = i
				o.Chosen = key
				break
			}
		}
	case "enter", " ":
		if o.Cursor >= 0 && o.Cursor < len(o.Options) {
			o.Chosen = o.Options[o.Cursor].Label
		}
	}

	return o, nil
}

// Lock freezes the list and records which label was correct.
func (o *OptionList) Lock(correctLabel string) {
	o.Locked = true
	o.CorrectLabel = correctLabel
}

// View renders the choices.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor && !o.Locked {
			prefix = "▸ "
		}
		marker := " "
		if opt.Label == o.Chosen {
			marker = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, marker, strings.ToUpper(opt.Label), opt.Text)

		switch {
		case o.Locked && opt.Label == o.CorrectLabel:
			b.WriteString(theme.Correct.Render(line))
		case o.Locked && opt.Label == o.Chosen:
			b.WriteString(theme.Incorrect.Render(line))
		case o.Locked:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(line))
		case i == o.Cursor || opt.Label == o.Chosen:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
