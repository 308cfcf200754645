package camera

import (
	"sync"

	"github.com/nlaroche/ascii-dungeon-sub002/core"
)

// store is a generic owner-keyed registry for cameras and behaviors.
// Registration order is preserved across removals: priority ties between
// cameras resolve to the earliest-registered candidate, so iteration order
// must be stable
type store[T any] struct {
	mu     sync.RWMutex
	values map[core.Entity]T
	owners []core.Entity // Registration order
}

func newStore[T any]() *store[T] {
	return &store[T]{
		values: make(map[core.Entity]T),
		owners: make([]core.Entity, 0, 8),
	}
}

// Set inserts or updates the value for an owner.
// A fresh insert appends to the registration order; updates keep their slot
func (s *store[T]) Set(owner core.Entity, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.values[owner]; !exists {
		s.owners = append(s.owners, owner)
	}
	s.values[owner] = val
}

// Get retrieves the value for an owner
func (s *store[T]) Get(owner core.Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[owner]
	return val, ok
}

// Remove deletes an owner's value, compacting the order slice in place so
// the remaining registration order is untouched
func (s *store[T]) Remove(owner core.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.values[owner]; !exists {
		return
	}
	delete(s.values, owner)
	for i, o := range s.owners {
		if o == owner {
			s.owners = append(s.owners[:i], s.owners[i+1:]...)
			break
		}
	}
}

// Has checks whether an owner is registered
func (s *store[T]) Has(owner core.Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[owner]
	return ok
}

// Owners returns a copy of the registration-ordered owner list
func (s *store[T]) Owners() []core.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]core.Entity, len(s.owners))
	copy(result, s.owners)
	return result
}

// Count returns the number of registered owners
func (s *store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.owners)
}

// Clear removes everything
func (s *store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[core.Entity]T)
	s.owners = s.owners[:0]
}
