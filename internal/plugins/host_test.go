package plugins

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/islet/internal/config"
	"github.com/conneroisu/islet/internal/metadata"
	"github.com/conneroisu/islet/internal/registry"
)

// fakeIntegration is a minimal Integration for host tests.
type fakeIntegration struct {
	name       string
	entrypoint string
	extensions []string
}

func (f *fakeIntegration) Name() string             { return f.name }
func (f *fakeIntegration) ClientEntrypoint() string { return f.entrypoint }
func (f *fakeIntegration) Extensions() []string     { return f.extensions }
func (f *fakeIntegration) Renderer() registry.ServerRenderer {
	return &acceptAllRenderer{}
}

type acceptAllRenderer struct{}

func (acceptAllRenderer) Check(ctx context.Context, component any, props map[string]any, children []any, md *metadata.ComponentMetadata) (bool, error) {
	return true, nil
}

func (acceptAllRenderer) RenderToStaticMarkup(ctx context.Context, component any, props map[string]any, children []any) (registry.Markup, error) {
	return registry.Markup{HTML: "<div></div>"}, nil
}

func emptyConfig() *config.Config {
	return &config.Config{Server: config.ServerConfig{Port: 4321}}
}

func TestHost_SetupRegistersIntegrationsInOrder(t *testing.T) {
	host := NewHost(emptyConfig(), nil)
	host.AddIntegration(&fakeIntegration{name: "react"})
	host.AddIntegration(&fakeIntegration{name: "svelte"})

	reg, err := host.Setup(context.Background())
	require.NoError(t, err)

	names := rendererNames(reg)
	assert.Equal(t, []string{"react", "svelte", registry.ReservedTemplateRenderer}, names,
		"built-in template renderer is always appended last")
	assert.True(t, reg.Finalized())
}

func TestHost_SetupAppliesConfigFilter(t *testing.T) {
	cfg := emptyConfig()
	cfg.Renderers = []config.RendererConfig{
		{Name: "react", Include: []string{"**/react/**"}},
	}

	host := NewHost(cfg, nil)
	host.AddIntegration(&fakeIntegration{name: "react"})

	reg, err := host.Setup(context.Background())
	require.NoError(t, err)

	d, ok := reg.Lookup("react")
	require.True(t, ok)
	require.NotNil(t, d.Filter)
	assert.True(t, d.Filter.Test("src/react/App.jsx"))
	assert.False(t, d.Filter.Test("src/svelte/App.svelte"))
}

func TestHost_ConfigOverridesEntrypointAndExtensions(t *testing.T) {
	cfg := emptyConfig()
	cfg.Renderers = []config.RendererConfig{
		{
			Name:             "react",
			ClientEntrypoint: "custom/client.js",
			Extensions:       []string{".jsx"},
		},
	}

	host := NewHost(cfg, nil)
	host.AddIntegration(&fakeIntegration{
		name:       "react",
		entrypoint: "default/client.js",
		extensions: []string{".jsx", ".tsx"},
	})

	reg, err := host.Setup(context.Background())
	require.NoError(t, err)

	d, _ := reg.Lookup("react")
	assert.Equal(t, "custom/client.js", d.ClientEntrypoint)
	assert.Equal(t, []string{".jsx"}, d.Extensions)
}

func TestHost_DeclaredRenderersFromConfig(t *testing.T) {
	cfg := emptyConfig()
	cfg.Renderers = []config.RendererConfig{
		{Name: "vue", Extensions: []string{".vue"}},
	}

	host := NewHost(cfg, nil)
	reg, err := host.Setup(context.Background())
	require.NoError(t, err)

	d, ok := reg.Lookup("vue")
	require.True(t, ok)

	md := &metadata.ComponentMetadata{
		Directive:    metadata.DirectiveLoad,
		ComponentURL: "src/App.vue",
	}
	claimed, err := d.Server.Check(context.Background(), nil, nil, nil, md)
	require.NoError(t, err)
	assert.True(t, claimed)

	md.ComponentURL = "src/App.jsx"
	claimed, err = d.Server.Check(context.Background(), nil, nil, nil, md)
	require.NoError(t, err)
	assert.False(t, claimed)

	_, err = d.Server.RenderToStaticMarkup(context.Background(), nil, nil, nil)
	assert.Error(t, err, "declared renderers cannot render")
}

func TestHost_DeclaredRendererWithoutPath(t *testing.T) {
	d := Declared(config.RendererConfig{Name: "vue", Extensions: []string{".vue"}})

	claimed, err := d.Renderer().Check(context.Background(), nil, nil, nil, nil)
	require.NoError(t, err)
	assert.False(t, claimed, "declared probes never claim pathless components")
}

func TestHost_IntegrationTakesPrecedenceOverDeclared(t *testing.T) {
	cfg := emptyConfig()
	cfg.Renderers = []config.RendererConfig{{Name: "react"}}

	host := NewHost(cfg, nil)
	host.AddIntegration(&fakeIntegration{name: "react"})

	reg, err := host.Setup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len(), "react plus the built-in renderer, no duplicate")
}

func TestHost_DuplicateIntegrationFailsSetup(t *testing.T) {
	host := NewHost(emptyConfig(), nil)
	host.AddIntegration(&fakeIntegration{name: "react"})
	host.AddIntegration(&fakeIntegration{name: "react"})

	_, err := host.Setup(context.Background())
	assert.Error(t, err, "registration errors abort setup")
}

func rendererNames(reg *registry.Registry) []string {
	var names []string
	for _, d := range reg.Renderers() {
		names = append(names, d.Name)
	}
	return names
}
