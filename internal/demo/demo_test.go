package demo

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/modalstack/pkg/modalstack"
)

type fixture struct {
	reg   *modalstack.Registry
	store *modalstack.Store
	mgr   *modalstack.Manager
	coord *modalstack.Coordinator
	opts  Options
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := modalstack.NewRegistry(modalstack.WithRegistryLogger(log))
	store := modalstack.NewStore()
	mgr := modalstack.NewManager(reg, store, modalstack.WithLogger(log))
	coord := modalstack.NewCoordinator(store, modalstack.WithCoordinatorLogger(log))
	mgr.SetMountAnchor(&modalstack.Anchor{Width: 80, Height: 24})
	opts := Options{MarkdownStyle: "notty"}
	if err := Register(reg, mgr, opts); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return fixture{reg: reg, store: store, mgr: mgr, coord: coord, opts: opts}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func stackNames(mgr *modalstack.Manager) []string {
	var out []string
	for _, inst := range mgr.ListActive() {
		out = append(out, inst.Name())
	}
	return out
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	want := []string{NameAlert, NameConfirm, NameForm, NamePalette}
	if got := f.reg.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestOpenPresets(t *testing.T) {
	f := newFixture(t)

	if _, err := Open(f.mgr, NameConfirm, f.opts); err != nil {
		t.Fatal(err)
	}
	inst := f.mgr.ListActive()[0]
	if inst.Action() != modalstack.ActionDelete {
		t.Errorf("confirm action = %q, want DELETE", inst.Action())
	}
	if inst.Props().Size != modalstack.SizeSM {
		t.Errorf("confirm size = %q, want sm", inst.Props().Size)
	}

	if _, err := Open(f.mgr, "missing", f.opts); err == nil {
		t.Error("opening an unregistered dialog succeeded")
	}
}

func TestConfirmChoose(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want bool
	}{
		{"enter on confirm", []string{"enter"}, true},
		{"move then enter", []string{"right", "enter"}, false},
		{"y shortcut", []string{"y"}, true},
		{"n shortcut", []string{"n"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if _, err := Open(f.mgr, NameConfirm, f.opts); err != nil {
				t.Fatal(err)
			}
			f.coord.Observe()
			inst := f.mgr.ListActive()[0]
			model := inst.Model()

			var cmd tea.Cmd
			for _, k := range tt.keys {
				model, cmd = model.Update(key(k))
			}

			if inst.State() != modalstack.StateClosed {
				t.Errorf("state = %s, want CLOSED", inst.State())
			}
			if cmd == nil {
				t.Fatal("no result command")
			}
			res, ok := cmd().(ConfirmResultMsg)
			if !ok {
				t.Fatalf("result = %T", cmd())
			}
			if res.Confirmed != tt.want {
				t.Errorf("Confirmed = %v, want %v", res.Confirmed, tt.want)
			}
			if res.Title != "Delete draft?" {
				t.Errorf("Title = %q", res.Title)
			}
		})
	}
}

func TestConfirmView(t *testing.T) {
	m := newConfirm(modalstack.Props{Values: map[string]any{"title": "Go?", "message": "really"}})
	out := ansi.Strip(m.View())
	for _, want := range []string{"Go?", "really", "Confirm", "Cancel"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestGlobalKeys(t *testing.T) {
	f := newFixture(t)
	listener := GlobalKeys(f.mgr)
	for _, name := range []string{NamePalette, NameConfirm, NameConfirm} {
		if _, err := Open(f.mgr, name, f.opts); err != nil {
			t.Fatal(err)
		}
	}

	if listener(key("z")) {
		t.Error("listener consumed an unrelated key")
	}

	if !listener(key("ctrl+k")) {
		t.Fatal("ctrl+k not consumed")
	}
	stack := f.mgr.ListActive()
	if stack[0].State() == modalstack.StateClosed {
		t.Error("palette closed by close-all-except")
	}
	for _, inst := range stack[1:] {
		if inst.State() != modalstack.StateClosed {
			t.Errorf("%s state = %s, want CLOSED", inst.Name(), inst.State())
		}
	}

	if !listener(key("ctrl+x")) {
		t.Fatal("ctrl+x not consumed")
	}
	if stack[0].State() != modalstack.StateClosed {
		t.Error("palette survived close-all")
	}
}

func TestFilterNames(t *testing.T) {
	names := []string{"alert", "confirm", "form"}

	if got := FilterNames("", names); !slices.Equal(got, names) {
		t.Errorf("empty query = %v", got)
	}
	got := FilterNames("cnf", names)
	if len(got) == 0 || got[0] != "confirm" {
		t.Errorf("FilterNames(cnf) = %v, want confirm first", got)
	}
	if got := FilterNames("zzz", names); len(got) != 0 {
		t.Errorf("FilterNames(zzz) = %v, want none", got)
	}
}

func TestPaletteOpensOnTop(t *testing.T) {
	f := newFixture(t)
	if _, err := Open(f.mgr, NamePalette, f.opts); err != nil {
		t.Fatal(err)
	}
	f.coord.Observe()
	palette := f.mgr.ListActive()[0]
	model := palette.Model()

	for _, r := range "conf" {
		model, _ = model.Update(key(string(r)))
	}
	if items := model.(*paletteModel).list.Items(); len(items) == 0 || items[0].ID != NameConfirm {
		t.Fatalf("filtered items = %+v", items)
	}
	model.Update(key("enter"))

	if got := stackNames(f.mgr); !slices.Equal(got, []string{NamePalette, NameConfirm}) {
		t.Errorf("stack = %v", got)
	}
	if palette.State() == modalstack.StateClosed {
		t.Error("palette closed when opening a nested dialog")
	}

	frames, _ := f.coord.Observe()
	if len(frames) != 2 || frames[0].Visible || !frames[1].Visible {
		t.Errorf("frames = %+v", frames)
	}
}

func TestPaletteExcludesItself(t *testing.T) {
	f := newFixture(t)
	p := newPalette(modalstack.Props{}, f.reg, f.mgr, f.opts)

	for _, item := range p.list.Items() {
		if item.ID == NamePalette {
			t.Error("palette lists itself")
		}
	}
	if len(p.list.Items()) != 3 {
		t.Errorf("palette lists %d dialogs, want 3", len(p.list.Items()))
	}
}

func TestAppOpensDialogs(t *testing.T) {
	f := newFixture(t)
	app := NewApp(f.mgr, NewScrollLock(modalstack.ScrollAuto), f.opts)

	m, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = m.Update(key("c"))
	m, _ = m.Update(key("p"))

	if got := stackNames(f.mgr); !slices.Equal(got, []string{NameConfirm, NamePalette}) {
		t.Errorf("stack = %v", got)
	}
	out := ansi.Strip(m.View())
	if !strings.Contains(out, "stack: confirm[delete] › palette[read]") {
		t.Errorf("status line missing stack:\n%s", out)
	}
}

func TestAppRecordsResults(t *testing.T) {
	f := newFixture(t)
	app := NewApp(f.mgr, nil, f.opts)

	m, _ := app.Update(ConfirmResultMsg{Title: "Delete?", Confirmed: true})
	m, _ = m.Update(FormResultMsg{Name: "ana", Subscribe: true})

	want := []string{"Delete?: confirmed", "form: ana (subscribe=true)"}
	if got := m.(App).Events(); !slices.Equal(got, want) {
		t.Errorf("Events() = %v, want %v", got, want)
	}
}

func TestAppQuit(t *testing.T) {
	f := newFixture(t)
	_, cmd := NewApp(f.mgr, nil, f.opts).Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestScrollLock(t *testing.T) {
	f := newFixture(t)
	lock := NewScrollLock(modalstack.ScrollAuto)
	coord := modalstack.NewCoordinator(f.store, modalstack.WithScrollController(lock))

	if _, err := Open(f.mgr, NameConfirm, f.opts); err != nil {
		t.Fatal(err)
	}
	coord.Observe()
	if !lock.Locked() {
		t.Error("background not locked while a dialog is open")
	}

	f.mgr.CloseAll()
	coord.Observe()
	coord.Commit()
	coord.Observe()
	if lock.Locked() {
		t.Error("background still locked after the stack emptied")
	}
}
