// Package resolver implements the dispatch engine that decides, per render
// call, which registered renderer owns a component of unknown origin.
//
// Resolution runs a fixed sequence of strategies: a build-time tag
// short-circuit, an explicit client:only override, and finally the
// probabilistic probe loop over the finalized registry. The registry's
// finalized order is the single source of truth for probe order, so
// resolution of structurally-identical input is deterministic: first match
// wins, not best match.
package resolver

import (
	"context"
	"fmt"
	"path"

	"github.com/conneroisu/islet/internal/errors"
	"github.com/conneroisu/islet/internal/guard"
	"github.com/conneroisu/islet/internal/logging"
	"github.com/conneroisu/islet/internal/metadata"
	"github.com/conneroisu/islet/internal/registry"
)

// Resolver picks exactly one renderer for a component or fails.
type Resolver struct {
	registry *registry.Registry
	guard    *guard.Guard
	tags     *TagStore
	logger   logging.Logger
}

// Options configures optional resolver collaborators.
type Options struct {
	// Guard intercepts diagnostic noise from side-effecting probes. A fresh
	// stderr guard is created when nil.
	Guard *guard.Guard

	// Tags is the build-time tag sidecar; DefaultTags when nil.
	Tags *TagStore

	// Logger receives probe diagnostics; discarded when nil.
	Logger logging.Logger
}

// New creates a resolver over a finalized registry.
func New(reg *registry.Registry, opts Options) *Resolver {
	if opts.Guard == nil {
		opts.Guard = guard.New(nil)
	}
	if opts.Tags == nil {
		opts.Tags = DefaultTags
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	return &Resolver{
		registry: reg,
		guard:    opts.Guard,
		tags:     opts.Tags,
		logger:   opts.Logger.WithComponent("resolver"),
	}
}

// Guard exposes the resolver's console guard so renderers can write their
// diagnostics through it.
func (r *Resolver) Guard() *guard.Guard {
	return r.guard
}

// Resolve selects the renderer responsible for component. md may be nil when
// no metadata extraction happened; that is equivalent to a directive-less
// bag.
//
// Errors from individual probes are captured, never fatal on their own; if
// resolution fails entirely the first captured error is attached as the
// cause of the returned failure.
func (r *Resolver) Resolve(ctx context.Context, component any, props map[string]any, children []any, md *metadata.ComponentMetadata) (*registry.Descriptor, error) {
	// Build-time tag short-circuit. A tag naming an unregistered renderer
	// is stale, not authoritative: fall through to probing instead of
	// trusting it.
	if name, ok := r.tags.Lookup(component); ok {
		if d, found := r.registry.Lookup(name); found {
			return d, nil
		}
		r.logger.Debug(ctx, "stale renderer tag, falling back to probing",
			"tagged", name)
	}

	// Explicit client:only override. Resolves by name without probing, so
	// this path is side-effect-free by construction.
	if md != nil && md.Directive == metadata.DirectiveOnly {
		return r.resolveOnly(md)
	}

	return r.probe(ctx, component, props, children, md)
}

// resolveOnly handles the client:only directive: an exact name match, or a
// fallback heuristic when the directive carried no renderer name.
func (r *Resolver) resolveOnly(md *metadata.ComponentMetadata) (*registry.Descriptor, error) {
	if name := md.DirectiveValue; name != "" {
		if d, ok := r.registry.Lookup(name); ok {
			return d, nil
		}
		return nil, errors.NewRendererNotFound(name).WithComponent(md.ComponentURL)
	}

	// No name given. A single registered renderer is unambiguous; otherwise
	// the component's file extension has to identify exactly one candidate.
	renderers := r.registry.Renderers()
	if len(renderers) == 1 {
		return renderers[0], nil
	}

	candidates := r.registry.CandidatesForExtension(path.Ext(md.ComponentURL))
	if len(candidates) == 1 {
		if d, ok := r.registry.Lookup(candidates[0]); ok {
			return d, nil
		}
	}

	return nil, errors.NewNoMatchingRenderer(md.ComponentURL, candidates, nil)
}

// probe iterates the finalized registry in order, skipping renderers whose
// path filter rejects the component's source path and invoking Check on the
// rest until one accepts.
func (r *Resolver) probe(ctx context.Context, component any, props map[string]any, children []any, md *metadata.ComponentMetadata) (*registry.Descriptor, error) {
	componentURL := ""
	if md != nil {
		componentURL = md.ComponentURL
	}

	var firstErr error
	for _, d := range r.registry.Renderers() {
		// The filter-gated skip is what keeps a probabilistic renderer from
		// executing a component that belongs to another framework. It only
		// helps when a source path is known; directive-less server-only
		// components have none, so every renderer gets probed and the first
		// accept wins.
		if d.Filter != nil && componentURL != "" && !d.Filter.Test(componentURL) {
			continue
		}

		ok, err := r.check(ctx, d, component, props, children, md)
		if err != nil {
			captured := errors.NewCheckFailed(d.Name, err)
			if firstErr == nil {
				firstErr = captured
			}
			r.logger.Warn(ctx, captured, "renderer check failed, trying next renderer",
				"renderer", d.Name)
			continue
		}
		if ok {
			return d, nil
		}
	}

	candidates := r.registry.CandidatesForExtension(path.Ext(componentURL))

	return nil, errors.NewNoMatchingRenderer(componentLabel(component, componentURL), candidates, firstErr)
}

// check invokes a renderer's probe with the console guard held and panic
// containment, since probabilistic checks may actually execute the component.
func (r *Resolver) check(ctx context.Context, d *registry.Descriptor, component any, props map[string]any, children []any, md *metadata.ComponentMetadata) (ok bool, err error) {
	h := r.guard.Use()
	defer h.Release()
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			err = fmt.Errorf("check panicked: %v", rec)
		}
	}()

	return d.Server.Check(ctx, component, props, children, md)
}

func componentLabel(component any, componentURL string) string {
	if componentURL != "" {
		return componentURL
	}

	return fmt.Sprintf("%T", component)
}
