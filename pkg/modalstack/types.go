package modalstack

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// State is the lifecycle state of an instance.
type State int32

const (
	StateNew     State = iota // opened, not yet rendered
	StateMounted              // rendered at least once
	StateClosed               // waiting for removal
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateMounted:
		return "MOUNTED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Action is an optional intent tag carried by an instance for the dialog's
// own logic. The stack never interprets it.
type Action string

const (
	ActionNone    Action = ""
	ActionCreate  Action = "CREATE"
	ActionRead    Action = "READ"
	ActionUpdate  Action = "UPDATE"
	ActionDelete  Action = "DELETE"
	ActionConfirm Action = "CONFIRM"
	ActionAlert   Action = "ALERT"
	ActionForm    Action = "FORM"
)

// Valid reports whether a is empty or one of the known intent tags.
func (a Action) Valid() bool {
	switch a {
	case ActionNone, ActionCreate, ActionRead, ActionUpdate, ActionDelete,
		ActionConfirm, ActionAlert, ActionForm:
		return true
	}
	return false
}

// Size selects the frame width a dialog is rendered in.
type Size string

const (
	SizeXS Size = "xs"
	SizeSM Size = "sm"
	SizeMD Size = "md"
	SizeLG Size = "lg"
)

// Width returns the frame width for the size. Unknown sizes fall back to md.
func (s Size) Width() int {
	switch s {
	case SizeXS:
		return 30
	case SizeSM:
		return 44
	case SizeLG:
		return 80
	default:
		return 60
	}
}

// ParseSize converts a config string into a Size, defaulting to md.
func ParseSize(v string) Size {
	switch Size(v) {
	case SizeXS, SizeSM, SizeMD, SizeLG:
		return Size(v)
	}
	return SizeMD
}

// CloseFunc closes a dialog. Calling it on an already closed or removed
// dialog does nothing.
type CloseFunc func()

// Props is the property bag handed to a dialog's renderer.
type Props struct {
	Values map[string]any // caller supplied fields, copied on open
	Size   Size
	Close  CloseFunc // injected by the manager
}

// String returns Values[key] as a string, or "" when absent or not a string.
func (p Props) String(key string) string {
	s, _ := p.Values[key].(string)
	return s
}

func (p Props) clone() Props {
	out := Props{Size: p.Size, Close: p.Close}
	if len(p.Values) > 0 {
		out.Values = make(map[string]any, len(p.Values))
		for k, v := range p.Values {
			out.Values[k] = v
		}
	}
	return out
}

// Renderer builds the model that displays a dialog's content.
type Renderer interface {
	Render(p Props) tea.Model
}

// RenderFunc adapts an ordinary function to a Renderer.
type RenderFunc func(p Props) tea.Model

// Render calls f(p).
func (f RenderFunc) Render(p Props) tea.Model {
	return f(p)
}

// Definition registers a dialog type under a unique name.
type Definition struct {
	Name   string
	Render Renderer
}

// Anchor is the region the stack renders into.
type Anchor struct {
	Width  int
	Height int
}

// Instance is one live request to show a dialog.
//
// The mounted model is only touched from the UI loop (Provider.Update and
// Provider.View); state transitions are atomic and strictly forward.
type Instance struct {
	id       uint64
	name     string
	props    Props
	action   Action
	onClose  func()
	renderer Renderer
	state    atomic.Int32
	model    tea.Model
}

// ID returns the instance's unique, monotonically assigned identifier.
func (i *Instance) ID() uint64 { return i.id }

// Name returns the registered name the instance was opened with.
func (i *Instance) Name() string { return i.name }

// Props returns the props the dialog was rendered with.
func (i *Instance) Props() Props { return i.props }

// Action returns the intent tag, or ActionNone.
func (i *Instance) Action() Action { return i.action }

// State returns the current lifecycle state.
func (i *Instance) State() State { return State(i.state.Load()) }

// Model returns the mounted model, or nil before mounting.
func (i *Instance) Model() tea.Model { return i.model }

// advance moves the instance to next if that is a forward transition.
func (i *Instance) advance(next State) bool {
	for {
		cur := i.state.Load()
		if State(cur) >= next {
			return false
		}
		if i.state.CompareAndSwap(cur, int32(next)) {
			return true
		}
	}
}

// notifyClose runs the caller supplied close notifier.
func (i *Instance) notifyClose() {
	if i.onClose != nil {
		i.onClose()
	}
}
