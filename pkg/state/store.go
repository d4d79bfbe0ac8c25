package state

import "sync"

// Store holds the single current game state. It performs no validation:
// the game server is trusted.
type Store struct {
	mu      sync.RWMutex
	current *GameState
}

func NewStore(initial *GameState) *Store {
	return &Store{current: initial.Clone()}
}

// Current returns a copy of the held state.
func (s *Store) Current() *GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Replace swaps the held state wholesale.
func (s *Store) Replace(next *GameState) {
	next = next.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
}
