package modalstack

import (
	"log/slog"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Manager opens and closes dialogs by mutating the store.
type Manager struct {
	registry *Registry
	store    *Store
	logger   *slog.Logger
	dismiss  key.Binding
	nextID   atomic.Uint64
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithDismissKeys replaces the keys that close the top dialog.
func WithDismissKeys(keys ...string) ManagerOption {
	return func(m *Manager) {
		if len(keys) > 0 {
			m.dismiss = key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], "close"))
		}
	}
}

// NewManager returns a manager reading definitions from reg and writing to store.
func NewManager(reg *Registry, store *Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: reg,
		store:    store,
		logger:   slog.Default(),
		dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OpenOption configures a single Open call.
type OpenOption func(*openConfig)

type openConfig struct {
	action  Action
	onClose func()
	size    Size
}

// WithAction tags the instance with an intent.
func WithAction(a Action) OpenOption {
	return func(c *openConfig) { c.action = a }
}

// WithOnClose sets the notifier CloseAll and CloseAllExcept call.
func WithOnClose(fn func()) OpenOption {
	return func(c *openConfig) {
		if fn != nil {
			c.onClose = fn
		}
	}
}

// WithSize overrides the frame size in props.
func WithSize(s Size) OpenOption {
	return func(c *openConfig) { c.size = s }
}

// Open pushes a new instance of the named dialog on top of the stack.
//
// The returned CloseFunc closes the oldest instance named name that is not
// already closed, at the time it is called. It is also injected as
// props.Close, replacing any caller value.
func (m *Manager) Open(name string, props Props, opts ...OpenOption) (CloseFunc, error) {
	def, err := m.registry.Lookup(name)
	if err != nil {
		m.logger.Warn("open unknown modal", "name", name)
		return nil, err
	}

	cfg := openConfig{onClose: func() {}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.action.Valid() {
		return nil, &InvalidArgumentError{Op: "open", Message: "unknown action " + string(cfg.action)}
	}

	closeFn := m.closeByName(name)

	p := props.clone()
	p.Close = closeFn
	if cfg.size != "" {
		p.Size = cfg.size
	}
	if p.Size == "" {
		p.Size = SizeMD
	}

	inst := &Instance{
		id:       m.nextID.Add(1),
		name:     name,
		props:    p,
		action:   cfg.action,
		onClose:  cfg.onClose,
		renderer: def.Render,
	}

	m.store.Update(func(st StackState) StackState {
		st.Stack = append(st.Stack, inst)
		return st
	})
	m.logger.Debug("modal opened", "name", name, "id", inst.id, "action", string(cfg.action))

	return closeFn, nil
}

func (m *Manager) closeByName(name string) CloseFunc {
	return func() {
		var closed *Instance
		m.store.Update(func(st StackState) StackState {
			for _, inst := range st.Stack {
				if inst.name == name && inst.State() != StateClosed {
					if inst.advance(StateClosed) {
						closed = inst
					}
					break
				}
			}
			return st
		})
		if closed != nil {
			m.logger.Debug("modal closed", "name", name, "id", closed.id)
		}
	}
}

// CloseInstance closes exactly inst. It does nothing when inst is no longer
// in the stack.
func (m *Manager) CloseInstance(inst *Instance) error {
	if inst == nil {
		return &InvalidArgumentError{Op: "close instance", Message: "Cannot close undefined modal instance"}
	}
	m.closeExact(inst)
	return nil
}

func (m *Manager) closeExact(inst *Instance) {
	closed := false
	m.store.Update(func(st StackState) StackState {
		for _, cur := range st.Stack {
			if cur == inst {
				closed = cur.advance(StateClosed)
				break
			}
		}
		return st
	})
	if closed {
		m.logger.Debug("modal closed", "name", inst.name, "id", inst.id)
	}
}

// CloseTop closes the last instance in the stack.
func (m *Manager) CloseTop() {
	stack := m.store.Snapshot().Stack
	if len(stack) == 0 {
		return
	}
	m.closeExact(stack[len(stack)-1])
}

// CloseAll calls every instance's close notifier in stack order. Instances
// only leave the stack if their notifier ends up closing them.
func (m *Manager) CloseAll() {
	for _, inst := range m.store.Snapshot().Stack {
		inst.notifyClose()
	}
}

// CloseAllExcept is CloseAll skipping instances named name.
func (m *Manager) CloseAllExcept(name string) {
	for _, inst := range m.store.Snapshot().Stack {
		if inst.name != name {
			inst.notifyClose()
		}
	}
}

// IsOpen reports whether any instance named name is in the stack, in any state.
func (m *Manager) IsOpen(name string) bool {
	for _, inst := range m.store.Snapshot().Stack {
		if inst.name == name {
			return true
		}
	}
	return false
}

// ListActive returns the stack in order. The slice is a copy.
func (m *Manager) ListActive() []*Instance {
	return m.store.Snapshot().Stack
}

// Depth returns the number of instances in the stack.
func (m *Manager) Depth() int {
	return len(m.store.Snapshot().Stack)
}

// SetMountAnchor records where the stack renders. nil clears the anchor.
func (m *Manager) SetMountAnchor(a *Anchor) {
	m.store.Update(func(st StackState) StackState {
		if a == nil {
			st.Anchor = nil
			return st
		}
		cp := *a
		st.Anchor = &cp
		return st
	})
}

// HandleDismissKey closes the top dialog when msg is a dismissal key and
// reports whether it was.
func (m *Manager) HandleDismissKey(msg tea.KeyMsg) bool {
	if !key.Matches(msg, m.dismiss) {
		return false
	}
	m.CloseTop()
	return true
}

// DismissBinding returns the binding for help views.
func (m *Manager) DismissBinding() key.Binding {
	return m.dismiss
}
