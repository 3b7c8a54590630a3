package demo

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/modalstack/pkg/modalstack"
)

// ScrollLock is the background scroll switch the coordinator flips while
// dialogs are open.
type ScrollLock struct {
	mode modalstack.ScrollMode
}

// NewScrollLock returns a lock in the given initial mode.
func NewScrollLock(mode modalstack.ScrollMode) *ScrollLock {
	return &ScrollLock{mode: mode}
}

func (s *ScrollLock) ScrollMode() modalstack.ScrollMode { return s.mode }

func (s *ScrollLock) SetScrollMode(m modalstack.ScrollMode) { s.mode = m }

// Locked reports whether the background must not scroll.
func (s *ScrollLock) Locked() bool { return s != nil && s.mode == modalstack.ScrollHidden }

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(modalstack.Primary).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(modalstack.BgSecondary).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(modalstack.Muted).Padding(0, 1)
)

// App is the background application the dialogs are drawn over.
type App struct {
	mgr    *modalstack.Manager
	scroll *ScrollLock
	opts   Options

	viewport viewport.Model
	width    int
	height   int
	ready    bool
	events   []string
	err      error
}

// NewApp returns the demo application.
func NewApp(mgr *modalstack.Manager, scroll *ScrollLock, opts Options) App {
	return App{mgr: mgr, scroll: scroll, opts: opts}
}

// Events returns what happened so far, oldest first.
func (a App) Events() []string { return a.events }

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		bodyHeight := max(1, msg.Height-3)
		if !a.ready {
			a.viewport = viewport.New(msg.Width, bodyHeight)
			a.viewport.SetContent(document)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = bodyHeight
		}
		return a, nil

	case ConfirmResultMsg:
		answer := "cancelled"
		if msg.Confirmed {
			answer = "confirmed"
		}
		a.events = append(a.events, fmt.Sprintf("%s: %s", msg.Title, answer))
		return a, nil

	case FormResultMsg:
		a.events = append(a.events, fmt.Sprintf("form: %s (subscribe=%t)", msg.Name, msg.Subscribe))
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.ready && !a.scroll.Locked() {
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var name string
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "c":
		name = NameConfirm
	case "a":
		name = NameAlert
	case "f":
		name = NameForm
	case "p", "ctrl+p":
		name = NamePalette
	default:
		if a.ready && !a.scroll.Locked() {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	_, a.err = Open(a.mgr, name, a.opts)
	return a, nil
}

func (a App) View() string {
	if !a.ready {
		return "loading…"
	}

	header := headerStyle.Render("modalstack demo")
	help := helpStyle.Render("c confirm · a alert · f form · p palette · esc close top · ctrl+x close all · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, a.viewport.View(), a.statusLine(), help)
}

func (a App) statusLine() string {
	stack := a.mgr.ListActive()
	parts := make([]string, len(stack))
	for i, inst := range stack {
		parts[i] = describe(inst)
	}

	status := "stack: (empty)"
	if len(parts) > 0 {
		status = "stack: " + strings.Join(parts, " › ")
	}
	if n := len(a.events); n > 0 {
		status += "  |  last: " + a.events[n-1]
	}
	if a.err != nil {
		status += "  |  error: " + a.err.Error()
	}
	return statusStyle.Width(max(a.width, 1)).Render(status)
}

const document = `Modal stacks

Every dialog opened here is pushed on a stack. Only the top one is drawn;
the ones underneath stay mounted, so switching back to a half-filled form
keeps what you typed.

Try it:

  1. Press f to open the form and type a name.
  2. Press p for the palette and pick "confirm" to stack it on top.
  3. Press esc to close the confirmation; the palette is back, untouched.

The background you are reading does not scroll while a dialog is open.

Closing by name closes the oldest open dialog with that name. Closing the
top closes whatever is frontmost. Close all asks every dialog to close
itself through its close notifier.
`
