package modalstack

import (
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// testDialog records what it receives.
type testDialog struct {
	props Props
	text  string
	msgs  []tea.Msg
	views int
	inits int
}

func (d *testDialog) Init() tea.Cmd {
	d.inits++
	return nil
}

func (d *testDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	d.msgs = append(d.msgs, msg)
	return d, nil
}

func (d *testDialog) View() string {
	d.views++
	return d.text
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func textRenderer(text string) Renderer {
	return RenderFunc(func(p Props) tea.Model {
		return &testDialog{props: p, text: text}
	})
}

type testSystem struct {
	reg   *Registry
	store *Store
	mgr   *Manager
	coord *Coordinator
}

// testAnchor is the mount anchor newTestSystem starts with.
var testAnchor = Anchor{Width: 80, Height: 24}

// newTestSystem returns a wired system whose store already has testAnchor.
func newTestSystem(t *testing.T, names ...string) testSystem {
	t.Helper()
	log := discardLogger()
	reg := NewRegistry(WithRegistryLogger(log))
	for _, name := range names {
		if err := reg.Register(Definition{Name: name, Render: textRenderer("dialog " + name)}); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}
	store := NewStore()
	mgr := NewManager(reg, store, WithLogger(log))
	coord := NewCoordinator(store, WithCoordinatorLogger(log))
	mgr.SetMountAnchor(&testAnchor)
	return testSystem{reg: reg, store: store, mgr: mgr, coord: coord}
}

func (s testSystem) open(t *testing.T, name string, opts ...OpenOption) CloseFunc {
	t.Helper()
	closeFn, err := s.mgr.Open(name, Props{}, opts...)
	if err != nil {
		t.Fatalf("Open(%q): %v", name, err)
	}
	return closeFn
}

// runCmd executes cmd and flattens batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func removeMsgs(msgs []tea.Msg) []RemoveMsg {
	var out []RemoveMsg
	for _, msg := range msgs {
		if rm, ok := msg.(RemoveMsg); ok {
			out = append(out, rm)
		}
	}
	return out
}

func names(insts []*Instance) []string {
	out := make([]string, len(insts))
	for i, inst := range insts {
		out[i] = inst.Name()
	}
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var escKey = tea.KeyMsg{Type: tea.KeyEsc}

var keyCtrlW = tea.KeyMsg{Type: tea.KeyCtrlW}
