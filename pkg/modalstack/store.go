package modalstack

import (
	"slices"
	"sync"
)

// StackState is one immutable snapshot of the stack and its mount anchor.
type StackState struct {
	Stack  []*Instance
	Anchor *Anchor
}

func (s StackState) clone() StackState {
	out := StackState{Anchor: s.Anchor}
	if len(s.Stack) > 0 {
		out.Stack = make([]*Instance, len(s.Stack))
		copy(out.Stack, s.Stack)
	}
	return out
}

// Store holds the authoritative stack. Every change replaces the whole
// snapshot so readers never see a half-applied update.
type Store struct {
	mu    sync.Mutex
	state StackState

	subMu  sync.Mutex
	subs   map[int]func(StackState)
	nextID int
}

// NewStore returns an empty store with no anchor.
func NewStore() *Store {
	return &Store{subs: map[int]func(StackState){}}
}

// Snapshot returns a copy of the current state. Mutating the returned
// slice does not affect the store.
func (s *Store) Snapshot() StackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Update replaces the state with fn(current). fn receives a private copy.
func (s *Store) Update(fn func(StackState) StackState) {
	s.mu.Lock()
	next := fn(s.state.clone())
	s.state = next.clone()
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
}

// Subscribe registers fn to be called after every update. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(StackState)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(snap StackState) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	fns := make([]func(StackState), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
