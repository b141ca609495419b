// Package store keeps the small piece of shared state the UI reacts to:
// whether the session check has finished and who is logged in.
package store

import "sync"

// State is a snapshot of the store.
type State struct {
	// Loaded is set once the startup session check has finished.
	Loaded   bool
	LoggedIn bool
	Email    string
}

// Store is safe for concurrent use. Listeners run synchronously on the
// goroutine that made the change, after the lock is released.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners []func(State)
}

func New() *Store {
	return &Store{}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to be called after every change.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SetLoaded marks the session check as finished.
func (s *Store) SetLoaded() {
	s.update(func(st *State) {
		st.Loaded = true
	})
}

// SetLoggedIn records a live session for email.
func (s *Store) SetLoggedIn(email string) {
	s.update(func(st *State) {
		st.Loaded = true
		st.LoggedIn = true
		st.Email = email
	})
}

// SetLoggedOut drops the session.
func (s *Store) SetLoggedOut() {
	s.update(func(st *State) {
		st.Loaded = true
		st.LoggedIn = false
		st.Email = ""
	})
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	before := s.state
	fn(&s.state)
	after := s.state
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	if before == after {
		return
	}
	for _, l := range listeners {
		l(after)
	}
}
