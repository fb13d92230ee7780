package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dharmasatrya/faredesk/internal/pricing"
)

var ErrNotFound = errors.New("session not found")

// Store keeps sessions in process memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]State
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]State)}
}

func (s *Store) Create(segment pricing.Segment, configs map[pricing.Segment]pricing.PriceConfig) State {
	st := New(uuid.NewString(), segment, configs)

	s.mu.Lock()
	s.sessions[st.ID] = st
	s.mu.Unlock()
	return st
}

func (s *Store) Get(id string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok {
		return State{}, ErrNotFound
	}
	return st, nil
}

// Dispatch reduces the stored state with action and stores the result.
func (s *Store) Dispatch(id string, action Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return State{}, ErrNotFound
	}
	next, err := Reduce(st, action)
	if err != nil {
		return st, err
	}
	s.sessions[id] = next
	return next, nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
