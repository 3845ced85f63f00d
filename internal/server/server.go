// Package server provides the development resolution server: registry
// introspection, dry-run component resolution, and websocket-based live
// reload when the configuration file changes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/islet/internal/config"
	isleterrors "github.com/conneroisu/islet/internal/errors"
	"github.com/conneroisu/islet/internal/island"
	"github.com/conneroisu/islet/internal/logging"
	"github.com/conneroisu/islet/internal/metadata"
	"github.com/conneroisu/islet/internal/registry"
	"github.com/conneroisu/islet/internal/resolver"
	"github.com/conneroisu/islet/internal/watcher"
)

// Server serves registry introspection and dry-run resolution over HTTP.
type Server struct {
	config   *config.Config
	registry *registry.Registry
	resolver *resolver.Resolver
	emitter  *island.Emitter
	logger   logging.Logger

	mu      sync.Mutex
	clients map[chan string]struct{}
}

// New creates a server over a finalized registry.
func New(cfg *config.Config, reg *registry.Registry, res *resolver.Resolver, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}

	return &Server{
		config:   cfg,
		registry: reg,
		resolver: res,
		emitter:  island.NewEmitter(),
		logger:   logger.WithComponent("server"),
		clients:  make(map[chan string]struct{}),
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /renderers", s.handleRenderers)
	mux.HandleFunc("POST /resolve", s.handleResolve)
	mux.HandleFunc("POST /island", s.handleIsland)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return mux
}

// Start serves until ctx is cancelled. When live reload is enabled and a
// config path is known, config changes are broadcast to websocket clients.
func (s *Server) Start(ctx context.Context, configPath string) error {
	if s.config.Development.LiveReload && configPath != "" {
		cw, err := watcher.New(250 * time.Millisecond)
		if err != nil {
			return err
		}
		if err := cw.AddPath(configPath); err != nil {
			return err
		}
		cw.AddHandler(func(events []watcher.ChangeEvent) {
			s.logger.Info(ctx, "configuration changed, notifying clients",
				"changes", len(events))
			s.Broadcast(`{"type":"reload"}`)
		})
		cw.Start(ctx)
		defer cw.Stop()
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info(ctx, "resolution server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RendererInfo is the introspection view of one registry entry.
type RendererInfo struct {
	Name             string   `json:"name" yaml:"name"`
	ClientEntrypoint string   `json:"client_entrypoint,omitempty" yaml:"client_entrypoint,omitempty"`
	Hydratable       bool     `json:"hydratable" yaml:"hydratable"`
	Filtered         bool     `json:"filtered" yaml:"filtered"`
	Extensions       []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

func (s *Server) handleRenderers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RendererInfos(s.registry))
}

// RendererInfos lists the registry in probe order for introspection output.
func RendererInfos(reg *registry.Registry) []RendererInfo {
	infos := make([]RendererInfo, 0, reg.Len())
	for _, d := range reg.Renderers() {
		infos = append(infos, RendererInfo{
			Name:             d.Name,
			ClientEntrypoint: d.ClientEntrypoint,
			Hydratable:       d.SupportsHydration(),
			Filtered:         d.Filter != nil,
			Extensions:       d.Extensions,
		})
	}

	return infos
}

// ResolveRequest describes one dry-run resolution.
type ResolveRequest struct {
	// Path is the component's source path.
	Path string `json:"path"`
	// Directive is the hydration directive name, empty for server-only.
	Directive string `json:"directive,omitempty"`
	// Value is the directive payload (media query, renderer name).
	Value string `json:"value,omitempty"`
	// Export is the component export name.
	Export string `json:"export,omitempty"`
}

// ResolveResponse reports the outcome of a dry-run resolution.
type ResolveResponse struct {
	Matched          bool     `json:"matched"`
	Renderer         string   `json:"renderer,omitempty"`
	ClientEntrypoint string   `json:"client_entrypoint,omitempty"`
	Hydratable       bool     `json:"hydratable"`
	Error            string   `json:"error,omitempty"`
	Candidates       []string `json:"candidates,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ResolveResponse{Error: "invalid request body"})
		return
	}

	resp := DryRun(r.Context(), s.resolver, req)
	writeJSON(w, http.StatusOK, resp)
}

// DryRun resolves a hypothetical component described by req, without any
// component value. Real probabilistic probes see a nil component and decline;
// filters, declared-extension probes, tags and directives behave exactly as
// they would at render time.
func DryRun(ctx context.Context, res *resolver.Resolver, req ResolveRequest) ResolveResponse {
	props := map[string]any{}
	if req.Directive != "" && req.Directive != string(metadata.DirectiveNone) {
		key := metadata.ReservedPrefix + req.Directive
		if req.Value != "" {
			props[key] = req.Value
		} else {
			props[key] = true
		}
		props[metadata.KeyComponentPath] = req.Path
		if req.Export != "" {
			props[metadata.KeyComponentExport] = req.Export
		}
	}

	md, forwarded := metadata.Extract(props)

	d, err := res.Resolve(ctx, nil, forwarded, nil, md)
	if err != nil {
		resp := ResolveResponse{Error: err.Error()}
		var ie *isleterrors.IsletError
		if isleterrors.IsNoMatchingRenderer(err) && errors.As(err, &ie) {
			resp.Candidates = ie.Candidates
		}
		return resp
	}

	return ResolveResponse{
		Matched:          true,
		Renderer:         d.Name,
		ClientEntrypoint: d.ClientEntrypoint,
		Hydratable:       d.SupportsHydration(),
	}
}

// IslandRequest previews the island wrapper a component would emit. Props is
// the forwarded property bag serialized into the wrapper element.
type IslandRequest struct {
	ResolveRequest
	Props map[string]any `json:"props,omitempty"`
}

// IslandResponse carries the resolution outcome and, on success, the island
// custom-element markup.
type IslandResponse struct {
	Resolution ResolveResponse `json:"resolution"`
	HTML       string          `json:"html,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func (s *Server) handleIsland(w http.ResponseWriter, r *http.Request) {
	var req IslandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, IslandResponse{Error: "invalid request body"})
		return
	}

	resp := s.EmitIsland(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

// EmitIsland resolves the component described by req and builds the island
// wrapper its hydration would persist into page output. The wrapper carries
// no server-rendered inner markup; this is a dry-run preview.
func (s *Server) EmitIsland(ctx context.Context, req IslandRequest) IslandResponse {
	props := make(map[string]any, len(req.Props)+3)
	for k, v := range req.Props {
		props[k] = v
	}
	if req.Directive != "" && req.Directive != string(metadata.DirectiveNone) {
		key := metadata.ReservedPrefix + req.Directive
		if req.Value != "" {
			props[key] = req.Value
		} else {
			props[key] = true
		}
		props[metadata.KeyComponentPath] = req.Path
		if req.Export != "" {
			props[metadata.KeyComponentExport] = req.Export
		}
	}

	md, forwarded := metadata.Extract(props)

	d, err := s.resolver.Resolve(ctx, nil, forwarded, nil, md)
	if err != nil {
		return IslandResponse{
			Resolution: DryRun(ctx, s.resolver, req.ResolveRequest),
			Error:      err.Error(),
		}
	}

	isl, err := s.emitter.Emit(d, md, forwarded, "")
	if err != nil {
		return IslandResponse{
			Resolution: ResolveResponse{Matched: true, Renderer: d.Name},
			Error:      err.Error(),
		}
	}

	markup := isl.HTML()
	if s.config.Development.ValidateMarkup {
		if err := island.ValidateMarkup(markup); err != nil {
			s.logger.Warn(ctx, err, "emitted island markup failed validation",
				"component", md.ComponentURL)
		}
	}

	return IslandResponse{
		Resolution: ResolveResponse{
			Matched:          true,
			Renderer:         d.Name,
			ClientEntrypoint: d.ClientEntrypoint,
			Hydratable:       d.SupportsHydration(),
		},
		HTML: markup,
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket accept failed")
		return
	}
	defer conn.CloseNow()

	ch := make(chan string, 8)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, ch)
		s.mu.Unlock()
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "server shutting down")
			return
		case msg := <-ch:
			if err := conn.Write(ctx, websocket.MessageText, []byte(msg)); err != nil {
				return
			}
		}
	}
}

// Broadcast sends a message to every connected websocket client. Slow
// clients are skipped rather than blocking the broadcaster.
func (s *Server) Broadcast(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
