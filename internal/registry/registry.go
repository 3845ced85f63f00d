// Package registry manages the ordered set of renderer descriptors assembled
// during process setup.
//
// Registration order is preserved exactly, with one exception: the host's own
// template renderer is always moved to the tail when the registry is
// finalized, so framework renderers get the first chance to claim a
// component. After Finalize the registry is immutable and safe to share
// across concurrent render calls without locking.
package registry

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/conneroisu/islet/internal/errors"
	"github.com/conneroisu/islet/internal/metadata"
	"github.com/conneroisu/islet/internal/pathfilter"
)

// ReservedTemplateRenderer is the name of the host's built-in template
// renderer. It is the only descriptor the registry reorders.
const ReservedTemplateRenderer = "templ"

// Markup is the result of a static render.
type Markup struct {
	HTML string
}

// ServerRenderer is the server-side capability contract every renderer
// module exposes.
//
// Check reports whether the renderer owns the component. It must return
// false, not an error, for "not mine"; a returned error is tolerated and
// treated as false plus diagnostic capture. Probabilistic renderers may
// execute the component inside Check, so callers must assume side effects.
type ServerRenderer interface {
	Check(ctx context.Context, component any, props map[string]any, children []any, md *metadata.ComponentMetadata) (bool, error)
	RenderToStaticMarkup(ctx context.Context, component any, props map[string]any, children []any) (Markup, error)
}

// StreamRenderer is the optional streaming variant of the render capability.
type StreamRenderer interface {
	RenderToStream(ctx context.Context, component any, props map[string]any, children []any, w io.Writer) error
}

// Descriptor describes one registered renderer. Descriptors are constructed
// once during setup and are immutable afterward; the registry owns them
// exclusively.
type Descriptor struct {
	// Name uniquely identifies the renderer ("react", "svelte", ...).
	Name string

	// Server is the renderer's server-side capability handle.
	Server ServerRenderer

	// ClientEntrypoint locates the renderer's browser-side hydration
	// module. Required only for renderers that support hydration.
	ClientEntrypoint string

	// Filter optionally scopes the renderer to a subset of source paths.
	Filter *pathfilter.Matcher

	// Extensions lists the file extensions (with leading dot) this renderer
	// typically owns. Used only for diagnostic candidate hints.
	Extensions []string
}

// SupportsHydration reports whether the descriptor can hydrate on the client.
func (d *Descriptor) SupportsHydration() bool {
	return d.ClientEntrypoint != ""
}

// Registry is the ordered, append-only renderer list.
type Registry struct {
	mu          sync.RWMutex
	descriptors []*Descriptor
	byName      map[string]*Descriptor
	finalized   bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]*Descriptor),
	}
}

// Register appends a descriptor in arrival order. Malformed descriptors
// (empty name, nil server handle, duplicate name) fail registration; these
// are setup-time errors and abort startup. Registering after Finalize is a
// programming error and panics.
func (r *Registry) Register(d *Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finalized {
		panic("registry: Register called after Finalize")
	}

	if d == nil || strings.TrimSpace(d.Name) == "" {
		return errors.NewRegistrationError("renderer descriptor has empty name")
	}
	if d.Server == nil {
		return errors.NewRegistrationError("renderer descriptor has no server capability").WithRenderer(d.Name)
	}
	if _, exists := r.byName[d.Name]; exists {
		return errors.NewRegistrationError("renderer already registered").WithRenderer(d.Name)
	}

	r.descriptors = append(r.descriptors, d)
	r.byName[d.Name] = d

	return nil
}

// Finalize freezes the registry after all integrations have registered. The
// reserved template renderer, if present, moves to the end of the list; the
// relative order of all other descriptors is preserved. Finalize must be
// called exactly once; a second call panics.
func (r *Registry) Finalize() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finalized {
		panic("registry: Finalize called twice")
	}

	reordered := make([]*Descriptor, 0, len(r.descriptors))
	var reserved *Descriptor
	for _, d := range r.descriptors {
		if d.Name == ReservedTemplateRenderer {
			reserved = d
			continue
		}
		reordered = append(reordered, d)
	}
	if reserved != nil {
		reordered = append(reordered, reserved)
	}

	r.descriptors = reordered
	r.finalized = true
}

// Finalized reports whether Finalize has run.
func (r *Registry) Finalized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.finalized
}

// Renderers returns the descriptors in probe order. The returned slice is a
// copy; the descriptors themselves are shared and must not be mutated.
func (r *Registry) Renderers() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Descriptor, len(r.descriptors))
	copy(out, r.descriptors)

	return out
}

// Lookup retrieves a descriptor by renderer name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byName[name]

	return d, ok
}

// Len returns the number of registered renderers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.descriptors)
}

// CandidatesForExtension returns the names of renderers whose declared
// extensions cover ext (".jsx", case-insensitive), in probe order. The list
// is diagnostic only and never drives retry.
func (r *Registry) CandidatesForExtension(ext string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext = strings.ToLower(ext)
	var names []string
	for _, d := range r.descriptors {
		for _, e := range d.Extensions {
			if strings.ToLower(e) == ext {
				names = append(names, d.Name)
				break
			}
		}
	}

	return names
}
