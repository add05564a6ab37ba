package ecs

import "github.com/chilli/backbone/internal/core/pool"

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
	Has(id EntityID) bool
	Len() int
}

// Store is the component storage for one component type, a keyed pool
// indexed by entity slot. It does not check generations; World does.
type Store[T any] struct {
	data *pool.Pool[T]
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: pool.New[T](256),
	}
}

// Add inserts c for id. It reports false when id already has a T.
func (s *Store[T]) Add(id EntityID, c T) bool {
	return s.data.Insert(id.Index(), c)
}

// Set overwrites an existing component.
func (s *Store[T]) Set(id EntityID, c T) bool {
	return s.data.Set(id.Index(), c)
}

// Get returns a pointer into the store. The pointer is invalidated by the
// next removal from this store.
func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c := s.data.Ptr(id.Index())
	return c, c != nil
}

func (s *Store[T]) Remove(id EntityID) {
	s.data.Destroy(id.Index())
}

func (s *Store[T]) Has(id EntityID) bool {
	return s.data.Contains(id.Index())
}

func (s *Store[T]) Len() int {
	return s.data.Len()
}

// Each visits components in dense order with the slot index of their owner.
func (s *Store[T]) Each(fn func(index uint32, c *T)) {
	s.data.Each(fn)
}
