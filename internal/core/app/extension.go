package app

import (
	"errors"
	"fmt"
)

// ErrDuplicateExtension is returned when two extensions share a name.
var ErrDuplicateExtension = errors.New("duplicate extension")

// Extension is a one-shot bootstrap unit. Build registers component types,
// asset stores, services, events and systems into the App.
type Extension interface {
	Name() string
	Build(a *App) error
}

// ExtensionRegistry keeps extensions by name in registration order.
type ExtensionRegistry struct {
	exts  map[string]Extension
	built map[string]bool
	order []string
}

func NewExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{
		exts:  make(map[string]Extension, 8),
		built: make(map[string]bool, 8),
	}
}

// Add stores ext, building it first when buildNow is set. A name already in
// the registry is refused before anything is built.
func (r *ExtensionRegistry) Add(ext Extension, buildNow bool, a *App) error {
	name := ext.Name()
	if _, ok := r.exts[name]; ok {
		return fmt.Errorf("add extension %q: %w", name, ErrDuplicateExtension)
	}
	if buildNow {
		if err := ext.Build(a); err != nil {
			return fmt.Errorf("build extension %q: %w", name, err)
		}
		r.built[name] = true
	}
	r.exts[name] = ext
	r.order = append(r.order, name)
	return nil
}

// BuildAll builds every extension that was added without buildNow.
func (r *ExtensionRegistry) BuildAll(a *App) error {
	for _, name := range r.order {
		if r.built[name] {
			continue
		}
		if err := r.exts[name].Build(a); err != nil {
			return fmt.Errorf("build extension %q: %w", name, err)
		}
		r.built[name] = true
	}
	return nil
}

func (r *ExtensionRegistry) Get(name string) (Extension, bool) {
	ext, ok := r.exts[name]
	return ext, ok
}

// Names lists extension names in registration order.
func (r *ExtensionRegistry) Names() []string {
	return append([]string(nil), r.order...)
}
