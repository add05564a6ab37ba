// Package typetag maps runtime type tags to type-erased owners. Component
// storages, asset stores, services and event storages are all kept this way.
package typetag

import "reflect"

// Tag is the runtime identity of a Go type.
type Tag = reflect.Type

// Of returns the tag for T. Interface types are supported.
func Of[T any]() Tag {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Registry owns one S per tag and remembers registration order, so that
// bulk operations visit owners deterministically.
type Registry[S any] struct {
	byTag map[Tag]S
	order []Tag
}

func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{byTag: make(map[Tag]S, 16)}
}

func (r *Registry[S]) Get(t Tag) (S, bool) {
	s, ok := r.byTag[t]
	return s, ok
}

// Put stores s under t, replacing any previous owner.
func (r *Registry[S]) Put(t Tag, s S) {
	if _, ok := r.byTag[t]; !ok {
		r.order = append(r.order, t)
	}
	r.byTag[t] = s
}

// GetOrPut returns the owner under t, creating it with mk when absent.
func (r *Registry[S]) GetOrPut(t Tag, mk func() S) S {
	if s, ok := r.byTag[t]; ok {
		return s
	}
	s := mk()
	r.Put(t, s)
	return s
}

func (r *Registry[S]) Delete(t Tag) {
	if _, ok := r.byTag[t]; !ok {
		return
	}
	delete(r.byTag, t)
	for i, o := range r.order {
		if o == t {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry[S]) Len() int { return len(r.order) }

// Each visits owners in registration order.
func (r *Registry[S]) Each(fn func(Tag, S)) {
	for _, t := range r.order {
		fn(t, r.byTag[t])
	}
}

// Clear forgets every owner.
func (r *Registry[S]) Clear() {
	clear(r.byTag)
	r.order = r.order[:0]
}

// Lookup fetches the owner registered under T's tag and downcasts it to C.
// A missing tag or a failed assertion both report false.
func Lookup[T any, C any, S any](r *Registry[S]) (C, bool) {
	s, ok := r.byTag[Of[T]()]
	if !ok {
		var zero C
		return zero, false
	}
	c, ok := any(s).(C)
	return c, ok
}
