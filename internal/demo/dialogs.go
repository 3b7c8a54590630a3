// Package demo is a small bubbletea application that exercises the modal
// stack: a scrollable document with confirm, alert, form and palette dialogs
// that can be opened on top of each other.
package demo

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/modalstack/pkg/modalstack"
)

// Registered dialog names.
const (
	NameConfirm = "confirm"
	NameAlert   = "alert"
	NameForm    = "form"
	NamePalette = "palette"
)

// Options tune the demo dialogs.
type Options struct {
	MarkdownStyle string
	DefaultSize   modalstack.Size
}

// ConfirmResultMsg reports the button chosen in a confirm dialog.
type ConfirmResultMsg struct {
	Title     string
	Confirmed bool
}

// Register adds the demo dialogs to reg.
func Register(reg *modalstack.Registry, mgr *modalstack.Manager, opts Options) error {
	if opts.MarkdownStyle == "" {
		opts.MarkdownStyle = "dark"
	}
	defs := []modalstack.Definition{
		{Name: NameConfirm, Render: modalstack.RenderFunc(newConfirm)},
		{Name: NameAlert, Render: modalstack.RenderFunc(func(p modalstack.Props) tea.Model {
			return newAlert(p, opts.MarkdownStyle)
		})},
		{Name: NameForm, Render: modalstack.RenderFunc(func(p modalstack.Props) tea.Model {
			return newForm(p)
		})},
		{Name: NamePalette, Render: modalstack.RenderFunc(func(p modalstack.Props) tea.Model {
			return newPalette(p, reg, mgr, opts)
		})},
	}
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Open opens a registered dialog with the demo's preset props and returns
// its close handle. The close notifier calls that handle, so CloseAll and
// CloseAllExcept take effect.
func Open(mgr *modalstack.Manager, name string, opts Options) (modalstack.CloseFunc, error) {
	props := modalstack.Props{Size: opts.DefaultSize}
	var openOpts []modalstack.OpenOption

	switch name {
	case NameConfirm:
		props.Values = map[string]any{
			"title":   "Delete draft?",
			"message": "The draft will be removed permanently.",
			"danger":  true,
		}
		openOpts = append(openOpts, modalstack.WithAction(modalstack.ActionDelete), modalstack.WithSize(modalstack.SizeSM))
	case NameAlert:
		props.Values = map[string]any{"body": alertMarkdown}
		openOpts = append(openOpts, modalstack.WithAction(modalstack.ActionAlert), modalstack.WithSize(modalstack.SizeLG))
	case NameForm:
		props.Values = map[string]any{"title": "New subscriber"}
		openOpts = append(openOpts, modalstack.WithAction(modalstack.ActionForm))
	case NamePalette:
		openOpts = append(openOpts, modalstack.WithAction(modalstack.ActionRead), modalstack.WithSize(modalstack.SizeSM))
	default:
		props.Values = map[string]any{"title": name}
	}

	var closeFn modalstack.CloseFunc
	openOpts = append(openOpts, modalstack.WithOnClose(func() {
		if closeFn != nil {
			closeFn()
		}
	}))
	fn, err := mgr.Open(name, props, openOpts...)
	if err != nil {
		return nil, err
	}
	closeFn = fn
	return fn, nil
}

// GlobalKeys returns a key listener for stack-wide shortcuts that work
// whichever dialog is on top.
func GlobalKeys(mgr *modalstack.Manager) modalstack.KeyListener {
	closeAll := key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "close all"))
	keepPalette := key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "close all but palette"))

	return func(msg tea.KeyMsg) bool {
		switch {
		case key.Matches(msg, closeAll):
			mgr.CloseAll()
			return true
		case key.Matches(msg, keepPalette):
			mgr.CloseAllExcept(NamePalette)
			return true
		}
		return false
	}
}

const alertMarkdown = `# Heads up

Dialogs stack. Anything you open from here lands **on top**, and the
ones underneath keep their state.

- ` + "`esc`" + ` closes the top dialog
- ` + "`ctrl+x`" + ` closes everything
`

// confirmModel is a two-button confirmation dialog.
type confirmModel struct {
	props   modalstack.Props
	title   string
	message string
	danger  bool
	focus   int // 0 = confirm, 1 = cancel
	done    bool
}

func newConfirm(p modalstack.Props) tea.Model {
	danger, _ := p.Values["danger"].(bool)
	title := p.String("title")
	if title == "" {
		title = "Are you sure?"
	}
	return &confirmModel{props: p, title: title, message: p.String("message"), danger: danger}
}

func (m *confirmModel) Init() tea.Cmd { return nil }

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "h", "shift+tab":
		m.focus = 0
	case "right", "l", "tab":
		m.focus = 1
	case "y":
		return m, m.choose(true)
	case "n":
		return m, m.choose(false)
	case "enter", " ":
		return m, m.choose(m.focus == 0)
	}
	return m, nil
}

func (m *confirmModel) choose(confirmed bool) tea.Cmd {
	m.done = true
	if m.props.Close != nil {
		m.props.Close()
	}
	title := m.title
	return func() tea.Msg {
		return ConfirmResultMsg{Title: title, Confirmed: confirmed}
	}
}

func (m *confirmModel) View() string {
	okStyle, cancelStyle := modalstack.Button, modalstack.Button
	if m.focus == 0 {
		okStyle = modalstack.ButtonFocused
		if m.danger {
			okStyle = modalstack.ButtonDangerFocused
		}
	} else {
		cancelStyle = modalstack.ButtonFocused
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		okStyle.Render("Confirm"), "  ", cancelStyle.Render("Cancel"))

	parts := []string{modalstack.Title.Render(m.title)}
	if m.message != "" {
		parts = append(parts, "", modalstack.Body.Render(m.message))
	}
	parts = append(parts, "", buttons, "", modalstack.MutedText.Render("←/→ select  enter choose  esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// alertModel shows a markdown message until dismissed.
type alertModel struct {
	props    modalstack.Props
	rendered string
}

func newAlert(p modalstack.Props, style string) tea.Model {
	return &alertModel{props: p, rendered: renderMarkdown(p.String("body"), style, p.Size.Width()-8)}
}

func (m *alertModel) Init() tea.Cmd { return nil }

func (m *alertModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", " ":
			if m.props.Close != nil {
				m.props.Close()
			}
		}
	}
	return m, nil
}

func (m *alertModel) View() string {
	return m.rendered + "\n" + modalstack.MutedText.Render("enter ok")
}

// renderMarkdown renders markdown once, falling back to the raw text.
func renderMarkdown(text, style string, width int) string {
	if text == "" {
		return ""
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return text
	}

	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}

	// Glamour adds lots of trailing newlines - strip them all
	return strings.TrimRight(rendered, "\n\r\t ")
}

// describe returns a one-line summary of an instance for the status bar.
func describe(inst *modalstack.Instance) string {
	s := inst.Name()
	if a := inst.Action(); a != modalstack.ActionNone {
		s += fmt.Sprintf("[%s]", strings.ToLower(string(a)))
	}
	if inst.State() == modalstack.StateClosed {
		s += "×"
	}
	return s
}
