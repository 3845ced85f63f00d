package resolver

import (
	"errors"
	"reflect"
	"sync"
)

// ErrUntaggable is returned when a component value has no stable identity to
// key a tag on.
var ErrUntaggable = errors.New("resolver: component value cannot carry a renderer tag")

// TagStore is the sidecar registry for build-time renderer tags. When the
// build pipeline knows unambiguously which renderer owns a component module,
// it tags the component value here so render-time resolution can skip the
// probe loop entirely.
//
// Tags are keyed by component identity rather than stored on the component
// value itself, so build-time and run-time code never fight over ownership
// of the value.
type TagStore struct {
	mu   sync.RWMutex
	tags map[uintptr]string
}

// NewTagStore creates an empty tag store.
func NewTagStore() *TagStore {
	return &TagStore{tags: make(map[uintptr]string)}
}

// DefaultTags is the store build-time tagging writes to when no explicit
// store is wired. Resolvers fall back to it when constructed without one.
var DefaultTags = NewTagStore()

// identity derives a stable identity key for a component value. Only
// reference-like kinds have one; plain values cannot be tagged.
func identity(component any) (uintptr, bool) {
	if component == nil {
		return 0, false
	}

	v := reflect.ValueOf(component)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return v.Pointer(), true
	default:
		return 0, false
	}
}

// Tag records that renderer owns component. Tagging a value without a stable
// identity returns ErrUntaggable.
func (s *TagStore) Tag(component any, renderer string) error {
	key, ok := identity(component)
	if !ok {
		return ErrUntaggable
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[key] = renderer

	return nil
}

// Lookup returns the renderer name tagged onto component, if any.
func (s *TagStore) Lookup(component any) (string, bool) {
	key, ok := identity(component)
	if !ok {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	name, found := s.tags[key]

	return name, found
}

// Untag removes a component's tag. The build pipeline uses this when a
// module is invalidated during development.
func (s *TagStore) Untag(component any) {
	key, ok := identity(component)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tags, key)
}
