package event

import (
	"github.com/chilli/backbone/internal/core/debug"
	"github.com/chilli/backbone/internal/core/typetag"
)

// clearable lets the Bus truncate storages without knowing their type.
type clearable interface {
	Clear()
	ActiveSize() int
}

// Storage is the per-type append buffer. It is truncated once per frame by
// Bus.ClearAll; events never survive into the next frame.
type Storage[T any] struct {
	events []T
	epoch  uint64
}

func (s *Storage[T]) Push(ev T) {
	s.events = append(s.events, ev)
}

// ActiveSize is the number of events written this frame.
func (s *Storage[T]) ActiveSize() int { return len(s.events) }

// Events returns this frame's events. The slice is reused after Clear.
func (s *Storage[T]) Events() []T { return s.events }

func (s *Storage[T]) Clear() {
	clear(s.events)
	s.events = s.events[:0]
	s.epoch++
}

// Reader is a cursor over a Storage. Several readers may watch the same
// storage independently.
type Reader[T any] struct {
	storage *Storage[T]
	cursor  int
	epoch   uint64
}

func NewReader[T any](s *Storage[T]) *Reader[T] {
	return &Reader[T]{storage: s, epoch: s.epoch}
}

func (r *Reader[T]) rewind() {
	if r.epoch != r.storage.epoch {
		r.epoch = r.storage.epoch
		r.cursor = 0
	}
}

// Read returns the unread events without consuming them. A reader that never
// calls Sync sees the same events on every Read within a frame.
func (r *Reader[T]) Read() []T {
	r.rewind()
	if r.cursor >= len(r.storage.events) {
		return nil
	}
	return r.storage.events[r.cursor:]
}

// Sync marks everything written so far as consumed.
func (r *Reader[T]) Sync() {
	r.rewind()
	r.cursor = len(r.storage.events)
}

// Drain returns the unread events and consumes them.
func (r *Reader[T]) Drain() []T {
	evs := r.Read()
	r.Sync()
	return evs
}

// Len is the number of unread events.
func (r *Reader[T]) Len() int { return len(r.Read()) }

// Bus maps event types to their storages.
type Bus struct {
	storages *typetag.Registry[clearable]
}

func NewBus() *Bus {
	return &Bus{storages: typetag.NewRegistry[clearable]()}
}

// Register creates the storage for T if it does not exist and returns it.
func Register[T any](b *Bus) *Storage[T] {
	s := b.storages.GetOrPut(typetag.Of[T](), func() clearable { return &Storage[T]{} })
	return s.(*Storage[T])
}

func GetStorage[T any](b *Bus) (*Storage[T], bool) {
	return typetag.Lookup[T, *Storage[T]](b.storages)
}

// Push appends ev to T's storage. T must be registered first; unregistered
// pushes are dropped, and debug builds panic.
func Push[T any](b *Bus, ev T) {
	s, ok := GetStorage[T](b)
	debug.Assert(ok, "push of unregistered event %s", typetag.Of[T]())
	if !ok {
		return
	}
	s.Push(ev)
}

// Subscribe returns a reader for T, registering T if needed.
func Subscribe[T any](b *Bus) *Reader[T] {
	return NewReader(Register[T](b))
}

// ClearAll truncates every storage. Called once per frame before systems run.
func (b *Bus) ClearAll() {
	b.storages.Each(func(_ typetag.Tag, s clearable) {
		s.Clear()
	})
}

// Pending is the total number of events written this frame across all types.
func (b *Bus) Pending() int {
	n := 0
	b.storages.Each(func(_ typetag.Tag, s clearable) {
		n += s.ActiveSize()
	})
	return n
}
