// Package server assembles a handler, the three registries, a
// middleware pipeline, and a transport into a running session (spec
// §4.4-§4.7). Replaces the teacher's package-global singleton Server
// with one built per instance via Builder, generalized to the multiple
// transports and the middleware pipeline mocopr-server/src/builder.rs
// and mocopr-server/src/server.rs describe.
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/richard-senior/mcpsession/internal/logger"
	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
	"github.com/richard-senior/mcpsession/pkg/middleware"
	"github.com/richard-senior/mcpsession/pkg/monitoring"
	"github.com/richard-senior/mcpsession/pkg/registry"
	"github.com/richard-senior/mcpsession/pkg/router"
	"github.com/richard-senior/mcpsession/pkg/session"
	"github.com/richard-senior/mcpsession/pkg/transport"
)

// Server is a fully configured MCP server: identity, capabilities,
// registries and middleware, ready to run over any Transport.
type Server struct {
	info         mcp.Implementation
	capabilities mcp.ServerCapabilities

	resources *registry.Resources
	tools     *registry.Tools
	prompts   *registry.Prompts

	hooks []middleware.Hook

	collector *monitoring.Collector
	exporter  *monitoring.Exporter

	bindAddress string
	port        int

	// activeHandler is the serverHandler of the most recently started
	// session, so NotifyResourceUpdated has somewhere to deliver to.
	// This module runs one session at a time per Server (spec §4.2's
	// stdio deployment); a later multi-session transport would need a
	// handler-per-session-ID map instead of a single slot.
	handlerMu     sync.Mutex
	activeHandler *serverHandler
}

func (s *Server) Info() mcp.Implementation           { return s.info }
func (s *Server) Capabilities() mcp.ServerCapabilities { return s.capabilities }
func (s *Server) Resources() *registry.Resources     { return s.resources }
func (s *Server) Tools() *registry.Tools             { return s.tools }
func (s *Server) Prompts() *registry.Prompts         { return s.prompts }

func (s *Server) newSession(t transport.Transport) *session.Session {
	h := &serverHandler{
		info:         s.info,
		capabilities: s.capabilities,
		resources:    s.resources,
		tools:        s.tools,
		prompts:      s.prompts,
	}
	r := router.New(h)
	pipeline := middleware.New(s.hooks...)
	sess := session.New(t, newPipelinedDispatcher(r, pipeline))
	h.bindSession(sess)

	s.handlerMu.Lock()
	s.activeHandler = h
	s.handlerMu.Unlock()

	return sess
}

// NotifyResourceUpdated pushes notifications/resources/updated for uri
// to the currently running session, if it is subscribed (SPEC_FULL.md
// §5's resource subscription bookkeeping). It returns a not-ready error
// if no session has been started yet, and is a no-op if the session
// never subscribed to uri.
func (s *Server) NotifyResourceUpdated(ctx context.Context, uri string) error {
	s.handlerMu.Lock()
	h := s.activeHandler
	s.handlerMu.Unlock()
	if h == nil {
		return mcperrors.New(mcperrors.KindNotReady, "no active session")
	}
	return h.notifyResourceUpdated(ctx, uri)
}

// RunStdio serves one session over stdio until the transport closes or
// ctx is cancelled (spec §4.2, the most common MCP deployment shape).
func (s *Server) RunStdio(ctx context.Context) error {
	return s.Run(ctx, transport.NewProcessStdio())
}

// Run drives one session to completion over t: starts the timeout
// sweeper, runs the receive loop, and tears both down on return.
func (s *Server) Run(ctx context.Context, t transport.Transport) error {
	sess := s.newSession(t)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sess.RunTimeoutSweeper(sweepCtx, session.DefaultTimeout/3)

	defer sess.Shutdown()
	return sess.Run(ctx)
}

// Start runs the server over stdio with the teacher's graceful-shutdown
// idiom: SIGINT/SIGTERM stop the server cleanly instead of a transport
// error propagating up as a crash.
func (s *Server) Start() error {
	logger.Info("starting MCP server: %s %s", s.info.Name, s.info.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() { errChan <- s.RunStdio(ctx) }()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("received signal, shutting down: %v", sig)
		cancel()
		return nil
	}
}
