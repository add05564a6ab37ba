package ecs

import "github.com/chilli/backbone/internal/core/typetag"

// Registry tracks all component stores by component type and supports bulk
// cleanup on entity destroy.
type Registry struct {
	stores *typetag.Registry[Removable]
}

func NewRegistry() *Registry {
	return &Registry{
		stores: typetag.NewRegistry[Removable](),
	}
}

// Register adds a component store under tag, keeping an existing one.
func (r *Registry) Register(tag typetag.Tag, mk func() Removable) Removable {
	return r.stores.GetOrPut(tag, mk)
}

func (r *Registry) Lookup(tag typetag.Tag) (Removable, bool) {
	return r.stores.Get(tag)
}

// RemoveAll clears the given entity from every registered component store.
// Cost is proportional to the number of registered types.
func (r *Registry) RemoveAll(id EntityID) {
	r.stores.Each(func(_ typetag.Tag, s Removable) {
		s.Remove(id)
	})
}

// Len is the number of registered component types.
func (r *Registry) Len() int { return r.stores.Len() }
