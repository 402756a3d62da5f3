// Package app wires the auth store, API client, and screens into the
// root Bubble Tea model.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/HeoJaeryoung/aice-project/internal/api"
	"github.com/HeoJaeryoung/aice-project/internal/auth"
	"github.com/HeoJaeryoung/aice-project/internal/router"
	"github.com/HeoJaeryoung/aice-project/internal/screen"
	"github.com/HeoJaeryoung/aice-project/internal/screens/home"
	"github.com/HeoJaeryoung/aice-project/internal/screens/login"
	"github.com/HeoJaeryoung/aice-project/internal/ui/layout"
)

// Options carries the dependencies built in cmd.
type Options struct {
	Client *api.Client
	Store  *auth.Store
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	store    *auth.Store
	router   *router.Router
	newLogin func() screen.Screen
	width    int
	height   int
}

// newAppModel picks the initial screen from the session state: the
// home menu if the startup check restored a session, login otherwise.
func newAppModel(opts Options) AppModel {
	var newLogin func() screen.Screen
	var newHome func() screen.Screen
	newLogin = func() screen.Screen {
		return login.New(opts.Store, newHome)
	}
	newHome = func() screen.Screen {
		return home.New(opts.Client, opts.Store, newLogin)
	}

	initial := newLogin()
	if opts.Store.Authenticated() {
		initial = newHome()
	}

	return AppModel{
		store:    opts.Store,
		router:   router.New(initial),
		newLogin: newLogin,
	}
}

func (m AppModel) Init() tea.Cmd {
	active := m.router.Active()
	if active == nil {
		return nil
	}
	return active.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// A screen may claim Esc for itself (wizard back-steps,
			// quit confirmations); otherwise it navigates back.
			if h, ok := m.router.Active().(screen.EscapeHandler); ok {
				if cmd, handled := h.HandleEscape(); handled {
					return m, cmd
				}
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)

	// A 401 anywhere clears the credential through the client hook
	// before the triggering message reaches Update, so checking here
	// catches an expired session no matter which screen issued the
	// request. The whole stack is replaced: every screen below login
	// is auth-gated.
	if !m.store.Authenticated() {
		if _, ok := m.router.Active().(*login.LoginScreen); !ok {
			s := m.newLogin()
			m.router = router.New(s)
			return m, tea.Batch(cmd, s.Init())
		}
	}
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	userName := ""
	if u := m.store.User(); u != nil {
		userName = u.Name
	}

	header := layout.RenderHeader(title, userName, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	if footerHints == nil {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
