// Package island emits the hydration-island descriptor persisted into page
// output for each hydrated component.
//
// The descriptor is rendered as an <islet-island> custom element carrying
// everything the browser-side loader needs: the component module URL, the
// export to hydrate, the renderer's client entrypoint, the hydration
// directive, and the serialized forwarded properties.
package island

import (
	"encoding/json"
	"fmt"
	"html"
	"path"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/islet/internal/errors"
	"github.com/conneroisu/islet/internal/metadata"
	"github.com/conneroisu/islet/internal/registry"
)

// Tag is the custom-element name the browser-side loader upgrades.
const Tag = "islet-island"

// Island is the persisted descriptor for one hydratable component subtree.
type Island struct {
	// ID uniquely identifies this island instance within the page.
	ID string `json:"id"`

	// ComponentURL is the component module the loader imports.
	ComponentURL string `json:"component_url"`

	// ComponentExport is the exported symbol to hydrate.
	ComponentExport string `json:"component_export"`

	// DisplayName is a human-readable component name for devtools.
	DisplayName string `json:"display_name"`

	// RendererClientEntrypoint is the renderer's browser-side hydration
	// module.
	RendererClientEntrypoint string `json:"renderer_client_entrypoint"`

	// Directive and DirectiveValue describe when hydration happens.
	Directive      metadata.Directive `json:"directive"`
	DirectiveValue string             `json:"directive_value,omitempty"`

	// Props is the JSON-serialized forwarded property bag.
	Props json.RawMessage `json:"props"`

	// InnerHTML is the server-rendered markup the island wraps.
	InnerHTML string `json:"-"`
}

// Emitter builds island descriptors from resolution results.
type Emitter struct {
	newID func() string
}

// NewEmitter creates an emitter with random island IDs.
func NewEmitter() *Emitter {
	return &Emitter{newID: uuid.NewString}
}

// Emit produces the island descriptor for a hydrated component. It fails
// when the component did not request hydration, when the selected renderer
// has no client entrypoint, when the component's source path is unknown, or
// when the forwarded properties cannot be serialized.
func (e *Emitter) Emit(desc *registry.Descriptor, md *metadata.ComponentMetadata, props map[string]any, innerHTML string) (*Island, error) {
	if md == nil || !md.Hydrated() {
		return nil, errors.NewInternalError("island emitted for a component without a hydration directive", nil)
	}
	if !desc.SupportsHydration() {
		return nil, errors.NewRenderError(desc.Name,
			fmt.Errorf("renderer has no client entrypoint, cannot hydrate %q", md.ComponentURL))
	}
	if md.ComponentURL == "" {
		return nil, errors.NewRenderError(desc.Name,
			fmt.Errorf("hydrated component has no source path"))
	}

	serialized, err := json.Marshal(props)
	if err != nil {
		return nil, errors.NewRenderError(desc.Name, fmt.Errorf("serializing props: %w", err))
	}

	return &Island{
		ID:                       e.newID(),
		ComponentURL:             md.ComponentURL,
		ComponentExport:          md.ComponentExport,
		DisplayName:              DisplayName(md.ComponentURL),
		RendererClientEntrypoint: desc.ClientEntrypoint,
		Directive:                md.Directive,
		DirectiveValue:           md.DirectiveValue,
		Props:                    serialized,
		InnerHTML:                innerHTML,
	}, nil
}

// HTML renders the island as its custom-element wrapper. Attribute values
// are escaped; the inner HTML is the renderer's output and passes through
// as-is.
func (i *Island) HTML() string {
	var b strings.Builder
	b.WriteString("<" + Tag)
	attr(&b, "uid", i.ID)
	attr(&b, "component-url", i.ComponentURL)
	attr(&b, "component-export", i.ComponentExport)
	attr(&b, "component-display-name", i.DisplayName)
	attr(&b, "renderer-url", i.RendererClientEntrypoint)
	attr(&b, "client", string(i.Directive))
	if i.DirectiveValue != "" {
		attr(&b, "value", i.DirectiveValue)
	}
	attr(&b, "props", string(i.Props))
	b.WriteString(">")
	b.WriteString(i.InnerHTML)
	b.WriteString("</" + Tag + ">")

	return b.String()
}

func attr(b *strings.Builder, name, value string) {
	b.WriteString(" " + name + `="` + html.EscapeString(value) + `"`)
}

var titleCaser = cases.Title(language.English)

// DisplayName derives a devtools-friendly component name from a source path:
// "src/widgets/user-card.jsx" becomes "User Card".
func DisplayName(componentURL string) string {
	base := path.Base(componentURL)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)

	return titleCaser.String(base)
}
