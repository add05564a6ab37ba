package ecs

// Query cursors scan every allocated entity slot in ascending index order,
// skip inactive slots, and yield the entities that have all requested
// components. A cursor is single-use; make a new one per pass. Creating or
// destroying entities, or adding or removing components, while a cursor is
// live is not allowed; use MarkForDestruction instead.

type cursor struct {
	w    *World
	next uint32
	end  uint32
	id   EntityID
}

func newCursor(w *World, ok bool) cursor {
	c := cursor{w: w, id: Nil}
	if ok {
		c.end = uint32(w.pool.SlotCount())
	}
	return c
}

func (c *cursor) advance(match func(EntityID) bool) bool {
	for c.next < c.end {
		idx := c.next
		c.next++
		id, ok := c.w.pool.At(idx)
		if ok && match(id) {
			c.id = id
			return true
		}
	}
	c.id = Nil
	return false
}

// Entity is the entity the cursor currently points at.
func (c *cursor) Entity() EntityID { return c.id }

type Cursor1[A any] struct {
	cursor
	sa *Store[A]
}

func Query1[A any](w *World) *Cursor1[A] {
	sa, ok := StoreOf[A](w)
	return &Cursor1[A]{cursor: newCursor(w, ok), sa: sa}
}

func (c *Cursor1[A]) Next() bool {
	return c.advance(c.sa.Has)
}

func (c *Cursor1[A]) Get() *A {
	a, _ := c.sa.Get(c.id)
	return a
}

type Cursor2[A, B any] struct {
	cursor
	sa *Store[A]
	sb *Store[B]
}

func Query2[A, B any](w *World) *Cursor2[A, B] {
	sa, okA := StoreOf[A](w)
	sb, okB := StoreOf[B](w)
	return &Cursor2[A, B]{cursor: newCursor(w, okA && okB), sa: sa, sb: sb}
}

func (c *Cursor2[A, B]) Next() bool {
	return c.advance(func(id EntityID) bool {
		return c.sa.Has(id) && c.sb.Has(id)
	})
}

func (c *Cursor2[A, B]) Get() (*A, *B) {
	a, _ := c.sa.Get(c.id)
	b, _ := c.sb.Get(c.id)
	return a, b
}

type Cursor3[A, B, C any] struct {
	cursor
	sa *Store[A]
	sb *Store[B]
	sc *Store[C]
}

func Query3[A, B, C any](w *World) *Cursor3[A, B, C] {
	sa, okA := StoreOf[A](w)
	sb, okB := StoreOf[B](w)
	sc, okC := StoreOf[C](w)
	return &Cursor3[A, B, C]{cursor: newCursor(w, okA && okB && okC), sa: sa, sb: sb, sc: sc}
}

func (c *Cursor3[A, B, C]) Next() bool {
	return c.advance(func(id EntityID) bool {
		return c.sa.Has(id) && c.sb.Has(id) && c.sc.Has(id)
	})
}

func (c *Cursor3[A, B, C]) Get() (*A, *B, *C) {
	a, _ := c.sa.Get(c.id)
	b, _ := c.sb.Get(c.id)
	cc, _ := c.sc.Get(c.id)
	return a, b, cc
}

// Each1 iterates over entities that have component A.
func Each1[A any](w *World, fn func(EntityID, *A)) {
	for q := Query1[A](w); q.Next(); {
		fn(q.Entity(), q.Get())
	}
}

// Each2 iterates over entities that have both component A and B.
func Each2[A, B any](w *World, fn func(EntityID, *A, *B)) {
	for q := Query2[A, B](w); q.Next(); {
		a, b := q.Get()
		fn(q.Entity(), a, b)
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](w *World, fn func(EntityID, *A, *B, *C)) {
	for q := Query3[A, B, C](w); q.Next(); {
		a, b, c := q.Get()
		fn(q.Entity(), a, b, c)
	}
}
