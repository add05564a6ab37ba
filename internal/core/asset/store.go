package asset

import "github.com/chilli/backbone/internal/core/pool"

// Handle is a typed reference to an asset in a Store. Handle ids are reused
// after removal; the generation tells a reissued id apart from a stale one.
// Generations start at 1, so the zero Handle never resolves.
type Handle[T any] struct {
	ID  pool.Key
	Gen uint32
}

// NilHandle never resolves.
func NilHandle[T any]() Handle[T] {
	return Handle[T]{ID: pool.None}
}

// Store pools assets of one type. Each asset is boxed, so the *T returned by
// Get stays put while other assets come and go.
type Store[T any] struct {
	items *pool.Pool[*T]
	gens  []uint32
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{items: pool.New[*T](16)}
}

func (s *Store[T]) Add(v T) Handle[T] {
	box := new(T)
	*box = v
	id := s.items.Create(box)
	for int(id) >= len(s.gens) {
		s.gens = append(s.gens, 1)
	}
	return Handle[T]{ID: id, Gen: s.gens[id]}
}

// Remove drops the asset behind h. Stale or already removed handles are ignored.
func (s *Store[T]) Remove(h Handle[T]) {
	if !s.IsValid(h) {
		return
	}
	s.items.Destroy(h.ID)
	s.bump(h.ID)
}

func (s *Store[T]) bump(k pool.Key) {
	s.gens[k]++
	if s.gens[k] == 0 {
		s.gens[k] = 1
	}
}

func (s *Store[T]) IsValid(h Handle[T]) bool {
	return s.items.Contains(h.ID) && s.gens[h.ID] == h.Gen
}

func (s *Store[T]) Get(h Handle[T]) (*T, bool) {
	if !s.IsValid(h) {
		return nil, false
	}
	box, _ := s.items.Get(h.ID)
	return box, true
}

func (s *Store[T]) Len() int { return s.items.Len() }

// Handles returns a handle for every live asset in storage order.
func (s *Store[T]) Handles() []Handle[T] {
	keys := s.items.Keys()
	out := make([]Handle[T], len(keys))
	for i, k := range keys {
		out[i] = Handle[T]{ID: k, Gen: s.gens[k]}
	}
	return out
}

// Each visits live assets in storage order. fn must not add or remove.
func (s *Store[T]) Each(fn func(Handle[T], *T)) {
	s.items.Each(func(k pool.Key, box **T) {
		fn(Handle[T]{ID: k, Gen: s.gens[k]}, *box)
	})
}

// Clear removes every asset and invalidates every outstanding handle.
func (s *Store[T]) Clear() {
	for _, k := range s.items.Keys() {
		s.bump(k)
	}
	for s.items.Len() > 0 {
		s.items.Destroy(s.items.Keys()[0])
	}
}
