package server

import (
	"context"
	"sync"

	"github.com/richard-senior/mcpsession/pkg/handler"
	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
	"github.com/richard-senior/mcpsession/pkg/registry"
	"github.com/richard-senior/mcpsession/pkg/session"
)

// serverHandler is the concrete handler.Handler a built Server dispatches
// through: it answers from the three registries and performs the
// server-side half of the initialize handshake (spec §4.4, §4.5 step 3).
// Everything not overridden here falls back to handler.BaseHandler's
// method-not-found default.
type serverHandler struct {
	handler.BaseHandler

	info         mcp.Implementation
	capabilities mcp.ServerCapabilities
	resources    *registry.Resources
	tools        *registry.Tools
	prompts      *registry.Prompts

	// sess is set once the Session wrapping this handler exists (after
	// construction, since the session needs the handler first). Used to
	// address notifications/resources/updated to this handler's own
	// subscriber set (SPEC_FULL.md §5's resource subscription bookkeeping,
	// grounded on mocopr-server/src/server.rs's subscription map).
	sess *session.Session

	subMu         sync.Mutex
	subscriptions map[string]bool
}

// bindSession attaches the running Session so notifyResourceUpdated can
// address it. Called once, right after the session is constructed.
func (h *serverHandler) bindSession(s *session.Session) {
	h.sess = s
}

var _ handler.Handler = (*serverHandler)(nil)

// HandleInitialize validates the client's requested protocol version and
// returns this server's identity and capabilities (spec §4.5 step 3;
// spec §6: unsupported versions are rejected, not silently downgraded).
func (h *serverHandler) HandleInitialize(ctx context.Context, params *mcp.InitializeParams) (*mcp.InitializeResult, error) {
	if !mcp.IsSupportedProtocolVersion(params.ProtocolVersion) {
		return nil, mcperrors.New(mcperrors.KindUnsupportedVersion, params.ProtocolVersion)
	}
	return &mcp.InitializeResult{
		ProtocolVersion: mcp.SupportedProtocolVersion,
		Capabilities:    h.capabilities,
		ServerInfo:      h.info,
	}, nil
}

func (h *serverHandler) HandleResourcesList(ctx context.Context, params *handler.ListParams) (*mcp.ResourcesListResult, error) {
	return h.resources.List(params.Cursor)
}

func (h *serverHandler) HandleResourcesRead(ctx context.Context, params *mcp.ResourcesReadParams) (*mcp.ResourcesReadResult, error) {
	return h.resources.Read(ctx, params.URI)
}

// HandleResourcesSubscribe records that this session wants
// notifications/resources/updated for params.URI. Subscribing to an
// unregistered URI is rejected rather than silently accepted.
func (h *serverHandler) HandleResourcesSubscribe(ctx context.Context, params *mcp.ResourcesSubscribeParams) error {
	if !h.resources.Has(params.URI) {
		return mcperrors.New(mcperrors.KindResourceNotFound, params.URI)
	}
	h.subMu.Lock()
	defer h.subMu.Unlock()
	if h.subscriptions == nil {
		h.subscriptions = make(map[string]bool)
	}
	h.subscriptions[params.URI] = true
	return nil
}

func (h *serverHandler) HandleResourcesUnsubscribe(ctx context.Context, params *mcp.ResourcesUnsubscribeParams) error {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	delete(h.subscriptions, params.URI)
	return nil
}

// notifyResourceUpdated sends notifications/resources/updated for uri
// if and only if this session is currently subscribed to it.
func (h *serverHandler) notifyResourceUpdated(ctx context.Context, uri string) error {
	h.subMu.Lock()
	subscribed := h.subscriptions[uri]
	h.subMu.Unlock()
	if !subscribed || h.sess == nil {
		return nil
	}
	return h.sess.SendNotification(ctx, string(mcp.NotificationResourcesUpdated), mcp.ResourcesUpdatedNotification{URI: uri})
}

func (h *serverHandler) HandleToolsList(ctx context.Context, params *handler.ListParams) (*mcp.ToolsListResult, error) {
	return h.tools.List(params.Cursor)
}

func (h *serverHandler) HandleToolsCall(ctx context.Context, params *mcp.ToolsCallParams) (*mcp.ToolsCallResult, error) {
	return h.tools.Call(ctx, params.Name, params.Arguments)
}

func (h *serverHandler) HandlePromptsList(ctx context.Context, params *handler.ListParams) (*mcp.PromptsListResult, error) {
	return h.prompts.List(params.Cursor)
}

func (h *serverHandler) HandlePromptsGet(ctx context.Context, params *mcp.PromptsGetParams) (*mcp.PromptsGetResult, error) {
	return h.prompts.Get(ctx, params.Name, params.Arguments)
}
