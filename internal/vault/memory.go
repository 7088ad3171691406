package vault

import (
	"context"
	"sync"

	"github.com/dukerupert/chorequest/internal/model"
)

// MemoryStore is an in-process Store used by tests and by the server when no
// vault endpoint is reachable. Subscribers are notified synchronously from
// Put, which keeps test ordering deterministic.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]model.AppState
	subs map[string]map[int]func(model.AppState)
	next int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]model.AppState),
		subs: make(map[string]map[int]func(model.AppState)),
	}
}

func (s *MemoryStore) Get(_ context.Context, code string) (model.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.docs[NormalizeCode(code)]
	if !ok {
		return model.AppState{}, ErrNotFound
	}
	return state.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, code string, state model.AppState) error {
	key := NormalizeCode(code)

	s.mu.Lock()
	s.docs[key] = state.Clone()
	var fns []func(model.AppState)
	for _, fn := range s.subs[key] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state.Clone())
	}
	return nil
}

func (s *MemoryStore) Subscribe(_ context.Context, code string, fn func(model.AppState)) (func(), error) {
	key := NormalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]func(model.AppState))
	}
	id := s.next
	s.next++
	s.subs[key][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[key], id)
	}, nil
}
