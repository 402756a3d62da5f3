// Package home is the main menu shown after login.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/HeoJaeryoung/aice-project/internal/api"
	"github.com/HeoJaeryoung/aice-project/internal/auth"
	"github.com/HeoJaeryoung/aice-project/internal/router"
	"github.com/HeoJaeryoung/aice-project/internal/screen"
	"github.com/HeoJaeryoung/aice-project/internal/screens/dashboard"
	"github.com/HeoJaeryoung/aice-project/internal/screens/history"
	"github.com/HeoJaeryoung/aice-project/internal/screens/mistakes"
	"github.com/HeoJaeryoung/aice-project/internal/screens/quiz"
	"github.com/HeoJaeryoung/aice-project/internal/ui/components"
	"github.com/HeoJaeryoung/aice-project/internal/ui/theme"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	store *auth.Store
	menu  components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. loginScreen builds the screen to return
// to after logging out.
func New(client *api.Client, store *auth.Store, loginScreen func() screen.Screen) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START QUIZ", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: quiz.New(client)}
			}
		}},
		{Label: "DASHBOARD", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: dashboard.New(client)}
			}
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(client)}
			}
		}},
		{Label: "MISTAKE NOTES", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: mistakes.New(client)}
			}
		}},
		{Label: "LOG OUT", Action: func() tea.Cmd {
			store.Logout()
			return func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: loginScreen()}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		store: store,
		menu:  components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("AICE Exam Prep"))
	b.WriteString("\n")

	if u := h.store.User(); u != nil {
		b.WriteString(theme.Subtitle.Width(width).
			Render(fmt.Sprintf("Welcome back, %s", u.Name)))
	}
	b.WriteString("\n\n")

	menu := theme.Card.Width(30).Render(h.menu.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, menu))

	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Home"
}
