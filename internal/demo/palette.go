package demo

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/modalstack/pkg/modalstack"
	"github.com/sahilm/fuzzy"
)

// paletteModel lists registered dialogs and opens the chosen one on top of
// itself.
type paletteModel struct {
	props modalstack.Props
	mgr   *modalstack.Manager
	opts  Options
	names []string
	input textinput.Model
	list  *List
	err   error
}

func newPalette(p modalstack.Props, reg *modalstack.Registry, mgr *modalstack.Manager, opts Options) *paletteModel {
	var names []string
	for _, name := range reg.Names() {
		if name != NamePalette {
			names = append(names, name)
		}
	}

	input := textinput.New()
	input.Placeholder = "open dialog…"
	input.Prompt = "› "
	input.CharLimit = 64
	input.Focus()

	m := &paletteModel{
		props: p,
		mgr:   mgr,
		opts:  opts,
		names: names,
		input: input,
		list:  NewList(nil, 5),
	}
	m.filter()
	return m
}

// FilterNames returns names matching query, best match first. An empty
// query returns names unchanged.
func FilterNames(query string, names []string) []string {
	if query == "" {
		return names
	}
	matches := fuzzy.Find(query, names)
	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = match.Str
	}
	return out
}

func (m *paletteModel) filter() {
	matched := FilterNames(m.input.Value(), m.names)
	items := make([]ListItem, len(matched))
	for i, name := range matched {
		items[i] = ListItem{ID: name, Label: name}
	}
	m.list.SetItems(items)
}

func (m *paletteModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *paletteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up", "down", "ctrl+p", "ctrl+n", "home", "end":
			m.list.Update(keyMsg)
			return m, nil
		case "enter":
			if id := m.list.Update(keyMsg); id != "" {
				_, m.err = Open(m.mgr, id, m.opts)
				if m.err != nil {
					slog.Warn("palette open failed", "name", id, "err", m.err)
				}
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.filter()
	}
	return m, cmd
}

func (m *paletteModel) View() string {
	parts := []string{
		modalstack.Title.Render("Open dialog"),
		"",
		m.input.View(),
		"",
		m.list.View(),
	}
	if m.err != nil {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(modalstack.Error).Render(m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
