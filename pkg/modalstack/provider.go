package modalstack

import (
	"sort"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Provider is a tea.Model that hosts the application's own model and draws
// the dialog stack over it.
//
// Key messages go to the global key bus first (where the dismiss listener
// lives while any dialog is open), then to the top dialog, or to the child
// when the stack is empty. Mouse events follow the same path, relative to
// the top dialog's frame; clicks on the backdrop are dropped. Other messages reach the child and every mounted
// dialog, so hidden dialogs keep working in the background.
type Provider struct {
	child tea.Model
	mgr   *Manager
	coord *Coordinator
	bus   *KeyBus

	frames     []Frame
	dirty      *atomic.Bool
	frameStyle lipgloss.Style
	dim        bool
	breadcrumb bool
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithFrameStyle sets the style wrapped around each dialog.
func WithFrameStyle(s lipgloss.Style) ProviderOption {
	return func(p *Provider) { p.frameStyle = s }
}

// WithBackdrop toggles dimming of the content behind the dialogs.
func WithBackdrop(on bool) ProviderOption {
	return func(p *Provider) { p.dim = on }
}

// WithBreadcrumb toggles the "a > b > c" trail shown above nested dialogs.
func WithBreadcrumb(on bool) ProviderOption {
	return func(p *Provider) { p.breadcrumb = on }
}

// NewProvider wraps child. The coordinator's dismiss listener is routed
// through the provider's key bus.
func NewProvider(child tea.Model, mgr *Manager, coord *Coordinator, opts ...ProviderOption) Provider {
	p := Provider{
		child:      child,
		mgr:        mgr,
		coord:      coord,
		bus:        NewKeyBus(),
		dirty:      new(atomic.Bool),
		frameStyle: FrameStyle,
		dim:        true,
		breadcrumb: true,
	}
	for _, opt := range opts {
		opt(&p)
	}
	coord.useKeySource(p.bus, mgr.HandleDismissKey)
	return p
}

// Child returns the wrapped application model.
func (p Provider) Child() tea.Model { return p.child }

// Frames returns the frames computed by the last update.
func (p Provider) Frames() []Frame { return p.frames }

// KeyBus returns the bus global key listeners attach to.
func (p Provider) KeyBus() *KeyBus { return p.bus }

// StackChangedMsg tells the provider the stack changed outside Update.
type StackChangedMsg struct{}

// Watch subscribes to the store and calls send with a StackChangedMsg when
// the stack changes, so dialogs opened from other goroutines get mounted
// without waiting for the next input. send runs on its own goroutine and may
// block, as tea.Program.Send does. Changes are coalesced until the message
// reaches Update. The returned function stops watching.
func (p Provider) Watch(send func(tea.Msg)) (stop func()) {
	dirty := p.dirty
	return p.coord.store.Subscribe(func(StackState) {
		if dirty.CompareAndSwap(false, true) {
			go send(StackChangedMsg{})
		}
	})
}

func (p Provider) Init() tea.Cmd {
	return p.child.Init()
}

func (p Provider) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case StackChangedMsg:
		p.dirty.Store(false)

	case RemoveMsg:
		p.coord.Remove(msg.Instances...)

	case tea.WindowSizeMsg:
		p.mgr.SetMountAnchor(&Anchor{Width: msg.Width, Height: msg.Height})
		cmds = append(cmds, p.broadcast(msg)...)

	case tea.KeyMsg:
		if p.bus.Dispatch(msg) {
			break
		}
		cmds = append(cmds, p.route(msg))

	case tea.MouseMsg:
		cmds = append(cmds, p.routeMouse(msg))

	default:
		cmds = append(cmds, p.broadcast(msg)...)
	}

	frames, cmd := p.coord.Observe()
	p.frames = frames
	cmds = append(cmds, cmd)
	return p, tea.Batch(cmds...)
}

// route delivers an input message to whoever owns input right now.
func (p *Provider) route(msg tea.Msg) tea.Cmd {
	stack := p.mgr.ListActive()
	if len(stack) == 0 {
		var cmd tea.Cmd
		p.child, cmd = p.child.Update(msg)
		return cmd
	}
	top := stack[len(stack)-1]
	if top.State() != StateMounted || top.model == nil {
		return nil
	}
	var cmd tea.Cmd
	top.model, cmd = top.model.Update(msg)
	return cmd
}

func (p *Provider) broadcast(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	p.child, cmd = p.child.Update(msg)
	cmds = append(cmds, cmd)

	for _, inst := range p.mgr.ListActive() {
		if inst.State() != StateMounted || inst.model == nil {
			continue
		}
		inst.model, cmd = inst.model.Update(msg)
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (p Provider) View() string {
	bg := p.child.View()

	anchor := p.mgr.store.Snapshot().Anchor
	if anchor == nil || len(p.frames) == 0 {
		return bg
	}

	frames := make([]Frame, len(p.frames))
	copy(frames, p.frames)
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].ZIndex < frames[j].ZIndex })

	out := bg
	if p.dim {
		out = Dim(bg)
	}
	for _, f := range frames {
		// Hidden frames are still rendered so their models stay live.
		view := p.renderFrame(f, anchor)
		if !f.Visible {
			continue
		}
		out = Overlay(out, view, anchor.Width, anchor.Height)
	}
	return out
}

func (p Provider) renderFrame(f Frame, anchor *Anchor) string {
	content := ""
	if m := f.Instance.Model(); m != nil {
		content = m.View()
	}

	width := min(f.Instance.props.Size.Width(), anchor.Width)
	inner := max(width-p.frameStyle.GetHorizontalBorderSize(), 1)
	box := p.frameStyle.Width(inner).Render(content)

	if p.breadcrumb && len(p.frames) > 1 {
		return lipgloss.JoinVertical(lipgloss.Left, Breadcrumb.Render(p.trail()), box)
	}
	return box
}

func (p Provider) trail() string {
	names := make([]string, 0, len(p.frames))
	for _, f := range p.frames {
		names = append(names, f.Instance.Name())
	}
	return strings.Join(names, " > ")
}
