// Package login implements the sign-in / sign-up screen shown before a
// session exists.
package login

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/HeoJaeryoung/aice-project/internal/auth"
	"github.com/HeoJaeryoung/aice-project/internal/router"
	"github.com/HeoJaeryoung/aice-project/internal/screen"
	"github.com/HeoJaeryoung/aice-project/internal/ui/components"
	"github.com/HeoJaeryoung/aice-project/internal/ui/layout"
	"github.com/HeoJaeryoung/aice-project/internal/ui/theme"
)

// authDoneMsg reports the outcome of an async login or register call.
type authDoneMsg struct {
	Err error
}

const (
	fieldName = iota
	fieldEmail
	fieldPassword
)

// LoginScreen collects credentials and drives the auth store.
type LoginScreen struct {
	store *auth.Store

	// next builds the screen shown after successful authentication.
	next func() screen.Screen

	name     components.TextInput
	email    components.TextInput
	password components.TextInput

	registerMode bool
	focus        int
	submitting   bool
	errMsg       string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the login screen. next is invoked to build the
// post-login screen so this package does not depend on it.
func New(store *auth.Store, next func() screen.Screen) *LoginScreen {
	s := &LoginScreen{
		store:    store,
		next:     next,
		name:     components.NewTextInput("Name     ", "your name", false, 60),
		email:    components.NewTextInput("Email    ", "you@example.com", false, 120),
		password: components.NewTextInput("Password ", "", true, 120),
		focus:    fieldEmail,
	}
	// Carry over a failure message left by a startup session check.
	s.errMsg = store.Err()
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.email.Focus()
}

func (s *LoginScreen) Title() string {
	if s.registerMode {
		return "Sign Up"
	}
	return "Sign In"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+T", Description: "Sign in/Sign up"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		s.submitting = false
		if msg.Err != nil {
			s.errMsg = s.store.Err()
			if s.errMsg == "" {
				s.errMsg = msg.Err.Error()
			}
			return s, nil
		}
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: s.next()}
		}

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forwardToFocused(msg)
}

func (s *LoginScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.submitting {
		return s, nil
	}

	switch msg.String() {
	case "tab", "down":
		return s, s.cycleFocus(1)
	case "shift+tab", "up":
		return s, s.cycleFocus(-1)
	case "ctrl+t":
		s.registerMode = !s.registerMode
		s.errMsg = ""
		s.store.ClearError()
		if !s.registerMode && s.focus == fieldName {
			return s, s.setFocus(fieldEmail)
		}
		return s, nil
	case "enter":
		return s.submit()
	}

	return s.forwardToFocused(msg)
}

// fields lists the active inputs in tab order.
func (s *LoginScreen) fields() []int {
	if s.registerMode {
		return []int{fieldName, fieldEmail, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (s *LoginScreen) cycleFocus(dir int) tea.Cmd {
	fields := s.fields()
	cur := 0
	for i, f := range fields {
		if f == s.focus {
			cur = i
			break
		}
	}
	next := (cur + dir + len(fields)) % len(fields)
	return s.setFocus(fields[next])
}

func (s *LoginScreen) setFocus(field int) tea.Cmd {
	s.name.Blur()
	s.email.Blur()
	s.password.Blur()
	s.focus = field
	switch field {
	case fieldName:
		return s.name.Focus()
	case fieldEmail:
		return s.email.Focus()
	default:
		return s.password.Focus()
	}
}

func (s *LoginScreen) forwardToFocused(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case fieldName:
		s.name, cmd = s.name.Update(msg)
	case fieldEmail:
		s.email, cmd = s.email.Update(msg)
	default:
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

// submit validates the form locally and issues the async auth call.
func (s *LoginScreen) submit() (screen.Screen, tea.Cmd) {
	name := strings.TrimSpace(s.name.Value())
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()

	if email == "" || password == "" {
		s.errMsg = "Email and password are required."
		return s, nil
	}
	if s.registerMode && name == "" {
		s.errMsg = "Name is required to sign up."
		return s, nil
	}

	s.errMsg = ""
	s.store.ClearError()
	s.submitting = true

	store := s.store
	register := s.registerMode
	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var err error
		if register {
			err = store.Register(ctx, email, password, name)
		} else {
			err = store.Login(ctx, email, password)
		}
		return authDoneMsg{Err: err}
	}
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	heading := "Sign in to continue studying"
	if s.registerMode {
		heading = "Create your account"
	}

	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("AICE Exam Prep"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(heading))
	b.WriteString("\n\n")

	var form strings.Builder
	if s.registerMode {
		form.WriteString(s.name.View())
		form.WriteString("\n")
	}
	form.WriteString(s.email.View())
	form.WriteString("\n")
	form.WriteString(s.password.View())

	card := theme.Card.Width(min(width-8, 60)).Render(form.String())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	switch {
	case s.submitting:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Signing in..."))
	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
	}

	b.WriteString("\n\n")
	toggle := "Ctrl+T to create an account instead"
	if s.registerMode {
		toggle = "Ctrl+T to sign in instead"
	}
	b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render(toggle))

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
