// Package plugins hosts renderer integrations during the setup phase.
//
// The host is the only writer to the renderer registry: it collects
// integrations in arrival order, attaches each one's filter configuration,
// appends the reserved built-in template renderer, and finalizes the
// registry before any render can occur.
package plugins

import (
	"context"

	"github.com/conneroisu/islet/internal/config"
	"github.com/conneroisu/islet/internal/logging"
	"github.com/conneroisu/islet/internal/registry"
	"github.com/conneroisu/islet/internal/templrender"
)

// Integration is one pluggable renderer module.
type Integration interface {
	// Name returns the unique renderer name.
	Name() string

	// Renderer returns the server-side capability handle.
	Renderer() registry.ServerRenderer

	// ClientEntrypoint locates the browser-side hydration module, empty for
	// server-only renderers.
	ClientEntrypoint() string

	// Extensions lists file extensions the renderer typically owns.
	Extensions() []string
}

// Host assembles the registry from integrations and configuration.
type Host struct {
	config       *config.Config
	logger       logging.Logger
	integrations []Integration
}

// NewHost creates a host over the loaded configuration.
func NewHost(cfg *config.Config, logger logging.Logger) *Host {
	if logger == nil {
		logger = logging.Nop()
	}

	return &Host{
		config: cfg,
		logger: logger.WithComponent("plugins"),
	}
}

// AddIntegration queues an integration for registration. Arrival order is
// probe order.
func (h *Host) AddIntegration(i Integration) {
	h.integrations = append(h.integrations, i)
}

// Setup builds and finalizes the registry: queued integrations first (in
// arrival order), then config-declared renderers that have no Go
// integration, then the reserved built-in template renderer. Registration
// errors abort setup; they are never recovered.
func (h *Host) Setup(ctx context.Context) (*registry.Registry, error) {
	reg := registry.New()

	registered := make(map[string]bool)
	for _, integration := range h.integrations {
		if err := h.register(ctx, reg, integration); err != nil {
			return nil, err
		}
		registered[integration.Name()] = true
	}

	// Renderers declared only in configuration get a probe that matches by
	// declared extension, which is enough for dry-run resolution tooling.
	for _, rc := range h.config.Renderers {
		if registered[rc.Name] || rc.Name == registry.ReservedTemplateRenderer {
			continue
		}
		if err := h.register(ctx, reg, Declared(rc)); err != nil {
			return nil, err
		}
		registered[rc.Name] = true
	}

	if !registered[registry.ReservedTemplateRenderer] {
		if err := reg.Register(templrender.Descriptor()); err != nil {
			return nil, err
		}
	}

	reg.Finalize()
	h.logger.Info(ctx, "renderer registry finalized", "renderers", reg.Len())

	return reg, nil
}

func (h *Host) register(ctx context.Context, reg *registry.Registry, integration Integration) error {
	desc := &registry.Descriptor{
		Name:             integration.Name(),
		Server:           integration.Renderer(),
		ClientEntrypoint: integration.ClientEntrypoint(),
		Extensions:       integration.Extensions(),
	}

	if rc, ok := h.config.RendererByName(integration.Name()); ok {
		filter, err := rc.Filter()
		if err != nil {
			return err
		}
		desc.Filter = filter
		if rc.ClientEntrypoint != "" {
			desc.ClientEntrypoint = rc.ClientEntrypoint
		}
		if len(rc.Extensions) > 0 {
			desc.Extensions = rc.Extensions
		}
	}

	h.logger.Debug(ctx, "registering renderer",
		"renderer", desc.Name,
		"filtered", desc.Filter != nil,
		"hydratable", desc.SupportsHydration())

	return reg.Register(desc)
}
