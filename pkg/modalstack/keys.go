package modalstack

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyListener receives every key message while registered. It returns true
// when it consumed the key.
type KeyListener func(tea.KeyMsg) bool

// KeySource is a global key event source listeners can attach to.
type KeySource interface {
	AddKeyListener(l KeyListener) (remove func())
}

// KeyBus is a KeySource fed by the Provider.
type KeyBus struct {
	mu        sync.Mutex
	listeners []*KeyListener
}

// NewKeyBus returns a bus with no listeners.
func NewKeyBus() *KeyBus {
	return &KeyBus{}
}

// AddKeyListener registers l. Calling the returned function more than once is safe.
func (b *KeyBus) AddKeyListener(l KeyListener) func() {
	ref := &l
	b.mu.Lock()
	b.listeners = append(b.listeners, ref)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, cur := range b.listeners {
				if cur == ref {
					b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Len returns the number of attached listeners.
func (b *KeyBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Dispatch offers msg to each listener in registration order and stops at
// the first one that consumes it.
func (b *KeyBus) Dispatch(msg tea.KeyMsg) bool {
	b.mu.Lock()
	ls := make([]*KeyListener, len(b.listeners))
	copy(ls, b.listeners)
	b.mu.Unlock()

	for _, l := range ls {
		if (*l)(msg) {
			return true
		}
	}
	return false
}
