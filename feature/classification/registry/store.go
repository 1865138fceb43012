package registry

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNilSnapshot is returned when swapping in a nil snapshot.
var ErrNilSnapshot = errors.New("registry: nil snapshot")

// Store serves the current snapshot and keeps the previous one for diffing.
// Reads are lock-free; Swap is serialized.
type Store struct {
	mu       sync.Mutex
	current  atomic.Pointer[Snapshot]
	previous atomic.Pointer[Snapshot]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the last successfully swapped snapshot, or nil before the
// first pass.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Previous returns the snapshot replaced by the latest swap, if any.
func (s *Store) Previous() *Snapshot {
	return s.previous.Load()
}

// Swap publishes next and returns the snapshot it replaced.
func (s *Store) Swap(next *Snapshot) (*Snapshot, error) {
	if next == nil {
		return nil, ErrNilSnapshot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.current.Swap(next)
	if old != nil {
		s.previous.Store(old)
	}
	return old, nil
}
