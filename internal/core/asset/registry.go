// Package asset keeps engine resources in typed pools addressed by handles,
// plus unpooled engine-wide singletons keyed by type.
package asset

import "github.com/chilli/backbone/internal/core/typetag"

// Single is an unpooled engine-wide resource.
type Single[T any] struct {
	Value T
}

// Registry owns every asset store and singleton. Dropping it drops them all.
type Registry struct {
	stores  *typetag.Registry[any]
	singles *typetag.Registry[any]
}

func NewRegistry() *Registry {
	return &Registry{
		stores:  typetag.NewRegistry[any](),
		singles: typetag.NewRegistry[any](),
	}
}

// RegisterStore creates the store for T if missing and returns it.
func RegisterStore[T any](r *Registry) *Store[T] {
	s := r.stores.GetOrPut(typetag.Of[T](), func() any { return NewStore[T]() })
	return s.(*Store[T])
}

func GetStore[T any](r *Registry) (*Store[T], bool) {
	return typetag.Lookup[T, *Store[T]](r.stores)
}

// AddAsset stores v, registering T's store on first use.
func AddAsset[T any](r *Registry, v T) Handle[T] {
	return RegisterStore[T](r).Add(v)
}

// GetAsset resolves h through T's store.
func GetAsset[T any](r *Registry, h Handle[T]) (*T, bool) {
	s, ok := GetStore[T](r)
	if !ok {
		return nil, false
	}
	return s.Get(h)
}

func RemoveAsset[T any](r *Registry, h Handle[T]) {
	if s, ok := GetStore[T](r); ok {
		s.Remove(h)
	}
}

func IsValid[T any](r *Registry, h Handle[T]) bool {
	s, ok := GetStore[T](r)
	return ok && s.IsValid(h)
}

// RegisterSingle creates a zero T singleton if missing and returns it.
func RegisterSingle[T any](r *Registry) *T {
	s := r.singles.GetOrPut(typetag.Of[T](), func() any { return &Single[T]{} })
	return &s.(*Single[T]).Value
}

// GetSingle returns the singleton T, or nil if it was never registered.
func GetSingle[T any](r *Registry) *T {
	s, ok := typetag.Lookup[T, *Single[T]](r.singles)
	if !ok {
		return nil
	}
	return &s.Value
}

// Free drops every store and singleton.
func (r *Registry) Free() {
	r.stores.Clear()
	r.singles.Clear()
}

// StoreCount is the number of registered asset types.
func (r *Registry) StoreCount() int { return r.stores.Len() }
