package modalstack

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// ScrollMode is the scroll behaviour of the content behind the dialogs.
type ScrollMode string

const (
	ScrollAuto   ScrollMode = "auto"
	ScrollHidden ScrollMode = "hidden"
)

// ScrollController lets the coordinator lock background scrolling while any
// dialog is open.
type ScrollController interface {
	ScrollMode() ScrollMode
	SetScrollMode(ScrollMode)
}

// DefaultBaseZIndex is the layering base used when none is configured.
const DefaultBaseZIndex = 1000

// Frame is one rendered slot of the stack.
type Frame struct {
	Instance *Instance
	Index    int
	Visible  bool
	ZIndex   int
}

// RemoveMsg carries closed instances whose removal was scheduled by Observe.
type RemoveMsg struct {
	Instances []*Instance
}

// Coordinator observes the store, mounts new instances, schedules removal
// of closed ones and toggles the global side effects tied to "anything open".
// It is driven from the UI loop and is not safe for concurrent use.
type Coordinator struct {
	store  *Store
	base   int
	logger *slog.Logger

	keys      KeySource
	dismiss   KeyListener
	removeKey func()

	scroll ScrollController
	prior  ScrollMode

	active    bool
	pending   []*Instance
	scheduled map[*Instance]bool
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithBaseZIndex sets the layering base.
func WithBaseZIndex(z int) CoordinatorOption {
	return func(c *Coordinator) { c.base = z }
}

// WithScrollController sets the background scroll lock target.
func WithScrollController(s ScrollController) CoordinatorOption {
	return func(c *Coordinator) { c.scroll = s }
}

// WithKeySource sets where the dismiss listener is attached.
func WithKeySource(k KeySource) CoordinatorOption {
	return func(c *Coordinator) { c.keys = k }
}

// WithDismissHandler sets the listener attached while the stack is non-empty,
// usually Manager.HandleDismissKey.
func WithDismissHandler(l KeyListener) CoordinatorOption {
	return func(c *Coordinator) { c.dismiss = l }
}

// WithCoordinatorLogger sets the coordinator's logger.
func WithCoordinatorLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCoordinator returns a coordinator for store. The scroll mode in effect
// when it is created is the one restored whenever the stack empties.
func NewCoordinator(store *Store, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:     store,
		base:      DefaultBaseZIndex,
		logger:    slog.Default(),
		scheduled: map[*Instance]bool{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.scroll != nil {
		c.prior = c.scroll.ScrollMode()
	}
	return c
}

// Observe runs one render pass over the current stack. It mounts NEW
// instances, returns a frame for every live instance and returns a command
// that delivers a RemoveMsg for instances that became CLOSED. Nothing is
// removed from the stack during the pass.
//
// Until a mount anchor is set nothing is mounted or framed: NEW instances
// stay NEW and are mounted by the first pass after the anchor appears.
// Removal scheduling and the side effects still run.
func (c *Coordinator) Observe() ([]Frame, tea.Cmd) {
	st := c.store.Snapshot()
	n := len(st.Stack)
	anchored := st.Anchor != nil

	var (
		frames []Frame
		cmds   []tea.Cmd
		closed []*Instance
	)
	for i, inst := range st.Stack {
		if anchored && inst.State() == StateNew {
			cmds = append(cmds, c.mount(inst))
		}
		if inst.State() == StateClosed {
			if !c.scheduled[inst] {
				c.scheduled[inst] = true
				c.pending = append(c.pending, inst)
				closed = append(closed, inst)
			}
			continue
		}
		if !anchored {
			continue
		}
		frames = append(frames, Frame{
			Instance: inst,
			Index:    i,
			Visible:  i == n-1,
			ZIndex:   c.base + (n - i),
		})
	}

	if len(closed) > 0 {
		cmds = append(cmds, func() tea.Msg {
			return RemoveMsg{Instances: closed}
		})
	}

	c.syncEffects(n > 0)
	return frames, tea.Batch(cmds...)
}

func (c *Coordinator) mount(inst *Instance) tea.Cmd {
	if inst.model == nil && inst.renderer != nil {
		inst.model = inst.renderer.Render(inst.props)
	}
	if !inst.advance(StateMounted) {
		return nil
	}
	c.logger.Debug("modal mounted", "name", inst.name, "id", inst.id)
	if inst.model == nil {
		return nil
	}
	return inst.model.Init()
}

// Remove drops the given closed instances from the stack. Instances already
// gone are ignored.
func (c *Coordinator) Remove(insts ...*Instance) {
	drop := make(map[*Instance]bool, len(insts))
	for _, inst := range insts {
		if inst != nil && inst.State() == StateClosed {
			drop[inst] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	c.store.Update(func(st StackState) StackState {
		kept := st.Stack[:0]
		for _, inst := range st.Stack {
			if !drop[inst] {
				kept = append(kept, inst)
			}
		}
		st.Stack = kept
		return st
	})

	pending := c.pending[:0]
	for _, inst := range c.pending {
		if drop[inst] {
			delete(c.scheduled, inst)
			c.logger.Debug("modal removed", "name", inst.name, "id", inst.id)
			continue
		}
		pending = append(pending, inst)
	}
	c.pending = pending
}

// Commit removes every instance scheduled by previous Observe calls. Hosts
// that do not run a tea.Program call it once per frame instead of handling
// RemoveMsg.
func (c *Coordinator) Commit() {
	if len(c.pending) == 0 {
		return
	}
	insts := make([]*Instance, len(c.pending))
	copy(insts, c.pending)
	c.Remove(insts...)
}

// Pending returns the number of instances waiting for removal.
func (c *Coordinator) Pending() int {
	return len(c.pending)
}

// Active reports whether the last observation saw a non-empty stack.
func (c *Coordinator) Active() bool {
	return c.active
}

// ListenerAttached reports whether the dismiss listener is on the key source.
func (c *Coordinator) ListenerAttached() bool {
	return c.removeKey != nil
}

// BaseZIndex returns the layering base.
func (c *Coordinator) BaseZIndex() int {
	return c.base
}

// syncEffects attaches or detaches the global side effects on the
// empty/non-empty transition only.
func (c *Coordinator) syncEffects(active bool) {
	if active == c.active {
		return
	}
	c.active = active

	if active {
		if c.keys != nil && c.dismiss != nil {
			c.removeKey = c.keys.AddKeyListener(c.dismiss)
		}
		if c.scroll != nil {
			c.scroll.SetScrollMode(ScrollHidden)
		}
		c.logger.Debug("modal layer active")
		return
	}

	if c.removeKey != nil {
		c.removeKey()
		c.removeKey = nil
	}
	if c.scroll != nil {
		c.scroll.SetScrollMode(c.prior)
	}
	c.logger.Debug("modal layer idle")
}

// useKeySource moves the dismiss listener to k, reattaching it if the layer
// is active.
func (c *Coordinator) useKeySource(k KeySource, dismiss KeyListener) {
	if c.removeKey != nil {
		c.removeKey()
		c.removeKey = nil
	}
	c.keys = k
	if c.dismiss == nil {
		c.dismiss = dismiss
	}
	if c.active && c.keys != nil && c.dismiss != nil {
		c.removeKey = c.keys.AddKeyListener(c.dismiss)
	}
}
