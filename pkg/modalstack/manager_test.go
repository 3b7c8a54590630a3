package modalstack

import (
	"errors"
	"slices"
	"testing"
)

func TestOpenKeepsCallOrder(t *testing.T) {
	s := newTestSystem(t, "a", "b")

	for _, name := range []string{"a", "b", "a", "a", "b"} {
		s.open(t, name)
	}

	got := names(s.mgr.ListActive())
	want := []string{"a", "b", "a", "a", "b"}
	if !slices.Equal(got, want) {
		t.Errorf("stack = %v, want %v", got, want)
	}
	for _, inst := range s.mgr.ListActive() {
		if inst.State() != StateNew {
			t.Errorf("%s state = %s, want NEW", inst.Name(), inst.State())
		}
	}
}

func TestOpenUnknownName(t *testing.T) {
	s := newTestSystem(t, "a")
	s.open(t, "a")

	closeFn, err := s.mgr.Open("nope", Props{})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Open() error = %v, want *NotFoundError", err)
	}
	if closeFn != nil {
		t.Error("Open() returned a close handle on failure")
	}
	if got := names(s.mgr.ListActive()); !slices.Equal(got, []string{"a"}) {
		t.Errorf("stack changed to %v", got)
	}
}

func TestOpenRejectsUnknownAction(t *testing.T) {
	s := newTestSystem(t, "a")

	_, err := s.mgr.Open("a", Props{}, WithAction(Action("ARCHIVE")))
	var iae *InvalidArgumentError
	if !errors.As(err, &iae) {
		t.Fatalf("Open() error = %v, want *InvalidArgumentError", err)
	}
	if s.mgr.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", s.mgr.Depth())
	}
}

func TestOpenInjectsClose(t *testing.T) {
	s := newTestSystem(t, "a")

	callerClose := func() { t.Error("caller supplied close must be replaced") }
	values := map[string]any{"title": "X"}
	closeFn, err := s.mgr.Open("a", Props{Values: values, Close: callerClose},
		WithAction(ActionConfirm), WithSize(SizeLG))
	if err != nil {
		t.Fatal(err)
	}
	values["title"] = "changed"

	inst := s.mgr.ListActive()[0]
	props := inst.Props()
	if props.String("title") != "X" {
		t.Errorf("title = %q, want X", props.String("title"))
	}
	if props.Size != SizeLG {
		t.Errorf("size = %q, want lg", props.Size)
	}
	if inst.Action() != ActionConfirm {
		t.Errorf("action = %q, want CONFIRM", inst.Action())
	}

	props.Close()
	if inst.State() != StateClosed {
		t.Errorf("state after props.Close = %s, want CLOSED", inst.State())
	}
	closeFn()
}

func TestOpenDefaultSize(t *testing.T) {
	s := newTestSystem(t, "a")
	s.open(t, "a")

	if got := s.mgr.ListActive()[0].Props().Size; got != SizeMD {
		t.Errorf("default size = %q, want md", got)
	}
}

func TestCloseHandleTargetsFirstOpen(t *testing.T) {
	s := newTestSystem(t, "a")
	first := s.open(t, "a")
	second := s.open(t, "a")

	stack := s.mgr.ListActive()
	if stack[0] == stack[1] {
		t.Fatal("same name produced the same instance twice")
	}

	second()
	if stack[0].State() != StateClosed || stack[1].State() != StateNew {
		t.Errorf("after second(): states = %s, %s; want CLOSED, NEW", stack[0].State(), stack[1].State())
	}

	first()
	if stack[1].State() != StateClosed {
		t.Errorf("after first(): second instance = %s, want CLOSED", stack[1].State())
	}

	// nothing left to close
	first()
	second()
}

func TestCloseInstance(t *testing.T) {
	s := newTestSystem(t, "a")
	s.open(t, "a")
	s.open(t, "a")
	stack := s.mgr.ListActive()

	if err := s.mgr.CloseInstance(stack[1]); err != nil {
		t.Fatal(err)
	}
	if stack[0].State() != StateNew || stack[1].State() != StateClosed {
		t.Errorf("states = %s, %s; want NEW, CLOSED", stack[0].State(), stack[1].State())
	}

	if err := s.mgr.CloseInstance(stack[1]); err != nil {
		t.Errorf("closing twice: %v", err)
	}
	if err := s.mgr.CloseInstance(&Instance{name: "a"}); err != nil {
		t.Errorf("closing a foreign instance: %v", err)
	}
	if stack[0].State() != StateNew {
		t.Error("foreign instance close touched the stack")
	}
}

func TestCloseInstanceNil(t *testing.T) {
	s := newTestSystem(t)

	err := s.mgr.CloseInstance(nil)
	var iae *InvalidArgumentError
	if !errors.As(err, &iae) {
		t.Fatalf("CloseInstance(nil) error = %v, want *InvalidArgumentError", err)
	}
}

func TestCloseTop(t *testing.T) {
	s := newTestSystem(t, "a", "b")
	s.mgr.CloseTop()

	s.open(t, "a")
	s.open(t, "b")
	s.mgr.CloseTop()

	stack := s.mgr.ListActive()
	if stack[0].State() != StateNew || stack[1].State() != StateClosed {
		t.Errorf("states = %s, %s; want NEW, CLOSED", stack[0].State(), stack[1].State())
	}
}

func TestCloseAllCallsNotifiersInOrder(t *testing.T) {
	s := newTestSystem(t, "a", "b")

	var calls []string
	s.open(t, "a", WithOnClose(func() { calls = append(calls, "a1") }))
	s.open(t, "b", WithOnClose(func() { calls = append(calls, "b") }))
	s.open(t, "a", WithOnClose(func() { calls = append(calls, "a2") }))

	s.mgr.CloseAll()

	if want := []string{"a1", "b", "a2"}; !slices.Equal(calls, want) {
		t.Errorf("notifier calls = %v, want %v", calls, want)
	}
	for _, inst := range s.mgr.ListActive() {
		if inst.State() != StateNew {
			t.Errorf("%s state = %s; CloseAll must leave state to the notifier", inst.Name(), inst.State())
		}
	}
}

func TestCloseAllWithClosingNotifiers(t *testing.T) {
	s := newTestSystem(t, "a", "b")

	var handles []CloseFunc
	for _, name := range []string{"a", "b"} {
		idx := len(handles)
		h := s.open(t, name, WithOnClose(func() { handles[idx]() }))
		handles = append(handles, h)
	}

	s.mgr.CloseAll()
	for _, inst := range s.mgr.ListActive() {
		if inst.State() != StateClosed {
			t.Errorf("%s state = %s, want CLOSED", inst.Name(), inst.State())
		}
	}
}

func TestCloseAllExcept(t *testing.T) {
	s := newTestSystem(t, "a", "b")

	var fired []string
	s.open(t, "a", WithOnClose(func() { fired = append(fired, "a") }))
	s.open(t, "a", WithOnClose(func() { fired = append(fired, "a") }))
	s.open(t, "b", WithOnClose(func() { fired = append(fired, "b") }))

	s.mgr.CloseAllExcept("a")

	if want := []string{"b"}; !slices.Equal(fired, want) {
		t.Errorf("fired = %v, want %v", fired, want)
	}
	for _, inst := range s.mgr.ListActive()[:2] {
		if inst.State() != StateNew {
			t.Errorf("a instance state = %s, want NEW", inst.State())
		}
	}
}

func TestIsOpen(t *testing.T) {
	s := newTestSystem(t, "a")

	if s.mgr.IsOpen("a") {
		t.Error("IsOpen before open")
	}
	closeFn := s.open(t, "a")
	if !s.mgr.IsOpen("a") {
		t.Error("IsOpen false right after open")
	}
	closeFn()
	if !s.mgr.IsOpen("a") {
		t.Error("IsOpen must stay true until the closed instance is removed")
	}
}

func TestListActiveIsDefensiveCopy(t *testing.T) {
	s := newTestSystem(t, "a", "b")
	s.open(t, "a")
	s.open(t, "b")

	list := s.mgr.ListActive()
	list[0] = nil
	list = append(list[:0], list[1:]...)
	_ = list

	if got := names(s.mgr.ListActive()); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("stack = %v after mutating ListActive result", got)
	}
}

func TestSetMountAnchor(t *testing.T) {
	s := newTestSystem(t)

	a := &Anchor{Width: 80, Height: 24}
	s.mgr.SetMountAnchor(a)
	s.mgr.SetMountAnchor(a)
	a.Width = 10

	got := s.store.Snapshot().Anchor
	if got == nil || got.Width != 80 || got.Height != 24 {
		t.Fatalf("anchor = %+v, want 80x24", got)
	}

	s.mgr.SetMountAnchor(nil)
	if s.store.Snapshot().Anchor != nil {
		t.Error("nil anchor did not clear")
	}
}

func TestHandleDismissKey(t *testing.T) {
	s := newTestSystem(t, "a", "b")
	s.open(t, "a")
	s.open(t, "b")
	stack := s.mgr.ListActive()

	if s.mgr.HandleDismissKey(keyRunes("q")) {
		t.Error("q treated as dismissal")
	}
	if stack[1].State() != StateNew {
		t.Error("non-dismiss key closed a dialog")
	}

	if !s.mgr.HandleDismissKey(escKey) {
		t.Error("esc not treated as dismissal")
	}
	if stack[0].State() != StateNew || stack[1].State() != StateClosed {
		t.Errorf("states = %s, %s; want NEW, CLOSED", stack[0].State(), stack[1].State())
	}
}

func TestWithDismissKeys(t *testing.T) {
	s := newTestSystem(t, "a")
	mgr := NewManager(s.reg, s.store, WithLogger(discardLogger()), WithDismissKeys("ctrl+w"))
	if _, err := mgr.Open("a", Props{}); err != nil {
		t.Fatal(err)
	}

	if mgr.HandleDismissKey(escKey) {
		t.Error("esc still dismisses after rebinding")
	}
	if !mgr.HandleDismissKey(keyCtrlW) {
		t.Error("ctrl+w does not dismiss")
	}
}
