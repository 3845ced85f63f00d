// Package templrender is the host's own template renderer: the reserved
// registry entry that claims templ components.
//
// It always sits last in probe order so framework renderers get first chance
// at ambiguous components. Its check is a plain type assertion and therefore
// side-effect free, which also makes it a safe catch-all.
package templrender

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/islet/internal/errors"
	"github.com/conneroisu/islet/internal/metadata"
	"github.com/conneroisu/islet/internal/registry"
)

// Renderer renders templ components server-side. It has no client
// entrypoint: templ output is static and never hydrates.
type Renderer struct{}

// New creates the built-in templ renderer.
func New() *Renderer {
	return &Renderer{}
}

// Descriptor returns the reserved registry descriptor for the built-in
// renderer.
func Descriptor() *registry.Descriptor {
	return &registry.Descriptor{
		Name:       registry.ReservedTemplateRenderer,
		Server:     New(),
		Extensions: []string{".templ"},
	}
}

// asComponent extracts a templ component from the opaque component value.
// Component factories (niladic functions returning a component) are accepted
// alongside direct component values.
func asComponent(component any) (templ.Component, bool) {
	switch c := component.(type) {
	case templ.Component:
		return c, true
	case func() templ.Component:
		return c(), true
	default:
		return nil, false
	}
}

// Check reports whether component is a templ component. Never errors: a
// foreign component is a well-formed negative.
func (r *Renderer) Check(ctx context.Context, component any, props map[string]any, children []any, md *metadata.ComponentMetadata) (bool, error) {
	_, ok := asComponent(component)

	return ok, nil
}

// RenderToStaticMarkup renders the component to a markup buffer.
func (r *Renderer) RenderToStaticMarkup(ctx context.Context, component any, props map[string]any, children []any) (registry.Markup, error) {
	var buf bytes.Buffer
	if err := r.RenderToStream(ctx, component, props, children, &buf); err != nil {
		return registry.Markup{}, err
	}

	return registry.Markup{HTML: buf.String()}, nil
}

// RenderToStream writes the rendered component directly to w.
func (r *Renderer) RenderToStream(ctx context.Context, component any, props map[string]any, children []any, w io.Writer) error {
	c, ok := asComponent(component)
	if !ok {
		return errors.NewRenderError(registry.ReservedTemplateRenderer,
			fmt.Errorf("value of type %T is not a templ component", component))
	}

	if err := c.Render(ctx, w); err != nil {
		return errors.NewRenderError(registry.ReservedTemplateRenderer, err)
	}

	return nil
}
