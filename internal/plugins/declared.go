package plugins

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/conneroisu/islet/internal/config"
	"github.com/conneroisu/islet/internal/metadata"
	"github.com/conneroisu/islet/internal/registry"
)

// Declared wraps a config-only renderer entry as an integration. Its probe
// claims components by declared file extension, so resolution dry runs
// behave like the real integration would once its Go module is wired in.
// Rendering through a declared integration is an error.
func Declared(rc config.RendererConfig) Integration {
	return &declaredIntegration{rc: rc}
}

type declaredIntegration struct {
	rc config.RendererConfig
}

func (d *declaredIntegration) Name() string              { return d.rc.Name }
func (d *declaredIntegration) ClientEntrypoint() string  { return d.rc.ClientEntrypoint }
func (d *declaredIntegration) Extensions() []string      { return d.rc.Extensions }
func (d *declaredIntegration) Renderer() registry.ServerRenderer {
	return &declaredRenderer{name: d.rc.Name, extensions: d.rc.Extensions}
}

type declaredRenderer struct {
	name       string
	extensions []string
}

func (r *declaredRenderer) Check(ctx context.Context, component any, props map[string]any, children []any, md *metadata.ComponentMetadata) (bool, error) {
	if md == nil || md.ComponentURL == "" {
		return false, nil
	}

	ext := strings.ToLower(path.Ext(md.ComponentURL))
	for _, e := range r.extensions {
		if strings.ToLower(e) == ext {
			return true, nil
		}
	}

	return false, nil
}

func (r *declaredRenderer) RenderToStaticMarkup(ctx context.Context, component any, props map[string]any, children []any) (registry.Markup, error) {
	return registry.Markup{}, fmt.Errorf("renderer %q is declared in configuration only and cannot render", r.name)
}
