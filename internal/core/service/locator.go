// Package service is a type-keyed lookup for shared cross-cutting services.
package service

import "github.com/chilli/backbone/internal/core/typetag"

// Locator holds at most one service per type. Callers register pointers or
// interface values; holders of a replaced service keep their own reference.
type Locator struct {
	services *typetag.Registry[any]
}

func NewLocator() *Locator {
	return &Locator{services: typetag.NewRegistry[any]()}
}

// Register installs svc as the T service, replacing any previous one.
func Register[T any](l *Locator, svc T) {
	l.services.Put(typetag.Of[T](), svc)
}

func Get[T any](l *Locator) (T, bool) {
	return typetag.Lookup[T, T](l.services)
}

// MustGet is Get for services an extension installs unconditionally.
func MustGet[T any](l *Locator) T {
	svc, ok := Get[T](l)
	if !ok {
		panic("service: " + typetag.Of[T]().String() + " not registered")
	}
	return svc
}

func Unregister[T any](l *Locator) {
	l.services.Delete(typetag.Of[T]())
}

func (l *Locator) Len() int { return l.services.Len() }
