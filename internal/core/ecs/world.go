package ecs

import (
	"github.com/chilli/backbone/internal/core/debug"
	"github.com/chilli/backbone/internal/core/typetag"
)

// World is the entity store. It owns the entity pool, the component
// registry, and a deferred destruction queue flushed once per frame.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// DestroyEntity removes id from every registered component store and retires
// it. Dead or stale ids are ignored.
func (w *World) DestroyEntity(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
}

// MarkForDestruction queues an entity for end-of-frame cleanup. Use it from
// inside a query, where DestroyEntity is not allowed.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities and clears their components.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.destroyQueue {
		w.DestroyEntity(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}

// SlotCount is the number of entity slots ever allocated.
func (w *World) SlotCount() int { return w.pool.SlotCount() }

// LiveCount is the number of live entities.
func (w *World) LiveCount() int { return w.pool.LiveCount() }

// HasAll reports whether id is alive and has a component of every tag.
func (w *World) HasAll(id EntityID, tags ...typetag.Tag) bool {
	if !w.pool.Alive(id) {
		return false
	}
	for _, t := range tags {
		s, ok := w.registry.Lookup(t)
		if !ok || !s.Has(id) {
			return false
		}
	}
	return true
}

// Register creates the store for T if it does not exist yet and returns it.
func Register[T any](w *World) *Store[T] {
	s := w.registry.Register(typetag.Of[T](), func() Removable {
		return NewStore[T]()
	})
	return s.(*Store[T])
}

// StoreOf returns the store for T without creating it.
func StoreOf[T any](w *World) (*Store[T], bool) {
	s, ok := w.registry.Lookup(typetag.Of[T]())
	if !ok {
		return nil, false
	}
	ts, ok := s.(*Store[T])
	return ts, ok
}

// Add attaches c to id, registering T on first use. Dead ids are ignored.
// Adding a T the entity already has is a caller error: the existing value is
// kept, and debug builds panic.
func Add[T any](w *World, id EntityID, c T) {
	if !w.pool.Alive(id) {
		return
	}
	ok := Register[T](w).Add(id, c)
	debug.Assert(ok, "entity %d already has a %s", id.Index(), typetag.Of[T]())
}

// Set overwrites T on id, attaching it if absent.
func Set[T any](w *World, id EntityID, c T) {
	if !w.pool.Alive(id) {
		return
	}
	s := Register[T](w)
	if !s.Set(id, c) {
		s.Add(id, c)
	}
}

func Remove[T any](w *World, id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	if s, ok := StoreOf[T](w); ok {
		s.Remove(id)
	}
}

// Get returns id's T. The pointer is only valid until the next removal
// from T's store.
func Get[T any](w *World, id EntityID) (*T, bool) {
	if !w.pool.Alive(id) {
		return nil, false
	}
	s, ok := StoreOf[T](w)
	if !ok {
		return nil, false
	}
	return s.Get(id)
}

// Get2 fetches two components at once; ok is false unless id has both.
func Get2[A, B any](w *World, id EntityID) (*A, *B, bool) {
	a, ok := Get[A](w, id)
	if !ok {
		return nil, nil, false
	}
	b, ok := Get[B](w, id)
	if !ok {
		return nil, nil, false
	}
	return a, b, true
}

func Has[T any](w *World, id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	s, ok := StoreOf[T](w)
	return ok && s.Has(id)
}

func Has2[A, B any](w *World, id EntityID) bool {
	return Has[A](w, id) && Has[B](w, id)
}

func Has3[A, B, C any](w *World, id EntityID) bool {
	return Has[A](w, id) && Has[B](w, id) && Has[C](w, id)
}
