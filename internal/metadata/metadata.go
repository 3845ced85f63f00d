// Package metadata decomposes an incoming component property bag into
// hydration metadata and the remaining forwarded properties.
//
// Hydration is requested through reserved, prefixed property keys
// ("client:load", "client:media", ...). Everything under the reserved prefix
// is consumed here and stripped before the properties reach a renderer.
package metadata

import "strings"

// ReservedPrefix marks property keys owned by the dispatch core.
const ReservedPrefix = "client:"

// Reserved sibling keys carrying component identity alongside a directive.
const (
	KeyComponentPath   = ReservedPrefix + "component-path"
	KeyComponentExport = ReservedPrefix + "component-export"
)

// DefaultExport is the export name assumed when none was supplied.
const DefaultExport = "default"

// Directive indicates if and when a server-rendered component becomes
// interactive in the browser.
type Directive string

const (
	DirectiveNone    Directive = "none"
	DirectiveLoad    Directive = "load"
	DirectiveIdle    Directive = "idle"
	DirectiveVisible Directive = "visible"
	DirectiveMedia   Directive = "media"
	DirectiveOnly    Directive = "only"
)

// directiveOrder fixes the scan order so that a property bag carrying more
// than one directive key always resolves the same way.
var directiveOrder = []Directive{
	DirectiveLoad,
	DirectiveIdle,
	DirectiveVisible,
	DirectiveMedia,
	DirectiveOnly,
}

// ComponentMetadata is the per-render-call extraction result. It is created
// fresh for each render call and never mutated afterward.
type ComponentMetadata struct {
	// Directive is the hydration directive, DirectiveNone when the
	// component is server-rendered only.
	Directive Directive

	// DirectiveValue is the directive-specific payload: a CSS media query
	// for DirectiveMedia, a renderer name for DirectiveOnly, empty
	// otherwise.
	DirectiveValue string

	// ComponentURL is the component's source path or module specifier.
	// Populated only when a hydration directive is present; its absence is
	// the server-only ambiguity the resolver has to live with.
	ComponentURL string

	// ComponentExport is the exported symbol to hydrate, DefaultExport when
	// unspecified. Empty when no directive is present.
	ComponentExport string
}

// Hydrated reports whether the component requested client hydration.
func (m *ComponentMetadata) Hydrated() bool {
	return m.Directive != DirectiveNone
}

// Extract splits props into hydration metadata and the forwarded property
// bag. All reserved keys are consumed regardless of whether they formed a
// valid directive; malformed payloads degrade to empty values instead of
// failing. Key order of the forwarded bag is not preserved.
func Extract(props map[string]any) (*ComponentMetadata, map[string]any) {
	md := &ComponentMetadata{Directive: DirectiveNone}
	forwarded := make(map[string]any, len(props))

	for key, value := range props {
		if !strings.HasPrefix(key, ReservedPrefix) {
			forwarded[key] = value
		}
	}

	for _, d := range directiveOrder {
		value, ok := props[ReservedPrefix+string(d)]
		if !ok {
			continue
		}
		// An explicit false opts back out of hydration.
		if b, isBool := value.(bool); isBool && !b {
			continue
		}

		md.Directive = d
		if s, isString := value.(string); isString {
			md.DirectiveValue = s
		}
		break
	}

	if md.Directive == DirectiveNone {
		return md, forwarded
	}

	if path, ok := props[KeyComponentPath].(string); ok {
		md.ComponentURL = path
	}
	md.ComponentExport = DefaultExport
	if export, ok := props[KeyComponentExport].(string); ok && export != "" {
		md.ComponentExport = export
	}

	return md, forwarded
}
