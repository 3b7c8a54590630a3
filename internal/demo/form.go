package demo

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/modalstack/pkg/modalstack"
)

// FormResultMsg carries the values of a submitted form dialog.
type FormResultMsg struct {
	Name      string
	Subscribe bool
}

// formModel wraps a huh form. It lives behind a pointer because the form
// writes into name and subscribe.
type formModel struct {
	props     modalstack.Props
	title     string
	form      *huh.Form
	name      string
	subscribe bool
	done      bool
}

func newForm(p modalstack.Props) *formModel {
	m := &formModel{props: p, title: p.String("title")}
	if m.title == "" {
		m.title = "Form"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Subscribe to updates?").
				Value(&m.subscribe),
		),
	).WithShowHelp(false).WithWidth(max(p.Size.Width()-8, 20))

	// The stack owns closing; the form must not quit the program.
	m.form.SubmitCmd = nil
	m.form.CancelCmd = nil
	return m
}

func (m *formModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.done = true
		m.close()
		result := FormResultMsg{Name: strings.TrimSpace(m.name), Subscribe: m.subscribe}
		return m, tea.Batch(cmd, func() tea.Msg { return result })
	case huh.StateAborted:
		m.done = true
		m.close()
	}
	return m, cmd
}

func (m *formModel) close() {
	if m.props.Close != nil {
		m.props.Close()
	}
}

func (m *formModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		modalstack.Title.Render(m.title),
		"",
		m.form.View(),
	)
}
