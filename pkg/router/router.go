// Package router dispatches decoded JSON-RPC requests and notifications
// to the matching Handler method by MCP method name (spec §4.3).
package router

import (
	"context"
	"encoding/json"

	"github.com/richard-senior/mcpsession/internal/logger"
	"github.com/richard-senior/mcpsession/pkg/handler"
	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// Dispatcher is the contract a Session depends on to turn a decoded
// request/notification into a response. *Router satisfies it directly;
// a server wraps one in a middleware pipeline and satisfies it too
// (spec §4.7: the pipeline wraps dispatch, it doesn't replace it).
type Dispatcher interface {
	DispatchRequest(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response
	DispatchNotification(ctx context.Context, n *jsonrpc.Notification)
}

// Router owns a reference to the polymorphic Handler and turns inbound
// wire messages into calls against it.
type Router struct {
	handler handler.Handler
}

var _ Dispatcher = (*Router)(nil)

func New(h handler.Handler) *Router {
	return &Router{handler: h}
}

// DispatchRequest decodes req.Params into the method-specific request
// type, invokes the matching handler method, and always returns a
// Response — success with Result, or error with the JSON-RPC code
// derived from the taxonomy in spec §7.
func (r *Router) DispatchRequest(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	result, err := r.invoke(ctx, req.Method, req.Params)
	if err != nil {
		return jsonrpc.NewErrorResponse(codeOf(err), mcperrors.WireMessage(err), nil, req.ID)
	}
	resp, err := jsonrpc.NewResultResponse(result, req.ID)
	if err != nil {
		return jsonrpc.NewErrorResponse(mcperrors.CodeInternal, mcperrors.WireMessage(err), nil, req.ID)
	}
	return resp
}

// DispatchNotification invokes the corresponding handler method and
// discards the return; notifications never produce a wire response, and
// any error is logged, not emitted (spec invariant 6).
func (r *Router) DispatchNotification(ctx context.Context, n *jsonrpc.Notification) {
	if err := r.invokeNotification(ctx, n.Method, n.Params); err != nil {
		logger.Warn("notification handler error", n.Method, err)
	}
}

func codeOf(err error) int {
	if mcpErr, ok := err.(*mcperrors.Error); ok {
		return mcpErr.Code()
	}
	return mcperrors.CodeInternal
}

func decode[T any](raw json.RawMessage) (*T, error) {
	var v T
	if len(raw) == 0 {
		return &v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, mcperrors.Wrap(mcperrors.KindInvalidParams, "invalid params", err)
	}
	return &v, nil
}

func (r *Router) invoke(ctx context.Context, method string, raw json.RawMessage) (any, error) {
	h := r.handler
	switch mcp.Method(method) {
	case mcp.MethodInitialize:
		p, err := decode[mcp.InitializeParams](raw)
		if err != nil {
			return nil, err
		}
		return h.HandleInitialize(ctx, p)
	case mcp.MethodPing:
		p, err := decode[mcp.PingParams](raw)
		if err != nil {
			return nil, err
		}
		return h.HandlePing(ctx, p)
	case mcp.MethodResourcesList:
		p, err := decode[handler.ListParams](raw)
		if err != nil {
			return nil, err
		}
		return h.HandleResourcesList(ctx, p)
	case mcp.MethodResourcesRead:
		p, err := decode[mcp.ResourcesReadParams](raw)
		if err != nil {
			return nil, err
		}
		return h.HandleResourcesRead(ctx, p)
	case mcp.MethodResourcesSubscribe:
		p, err := decode[mcp.ResourcesSubscribeParams](raw)
		if err != nil {
			return nil, err
		}
		return nil, h.HandleResourcesSubscribe(ctx, p)
	case mcp.MethodResourcesUnsubscribe:
		p, err := decode[mcp.ResourcesUnsubscribeParams](raw)
		if err != nil {
			return nil, err
		}
		return nil, h.HandleResourcesUnsubscribe(ctx, p)
	case mcp.MethodToolsList:
		p, err := decode[handler.ListParams](raw)
		if err != nil {
			return nil, err
		}
		return h.HandleToolsList(ctx, p)
	case mcp.MethodToolsCall:
		p, err := decode[mcp.ToolsCallParams](raw)
		if err != nil {
			return nil, err
		}
		return h.HandleToolsCall(ctx, p)
	case mcp.MethodPromptsList:
		p, err := decode[handler.ListParams](raw)
		if err != nil {
			return nil, err
		}
		return h.HandlePromptsList(ctx, p)
	case mcp.MethodPromptsGet:
		p, err := decode[mcp.PromptsGetParams](raw)
		if err != nil {
			return nil, err
		}
		return h.HandlePromptsGet(ctx, p)
	case mcp.MethodLoggingSetLevel:
		p, err := decode[mcp.SetLevelParams](raw)
		if err != nil {
			return nil, err
		}
		return nil, h.HandleLoggingSetLevel(ctx, p)
	case mcp.MethodSamplingCreateMessage:
		p, err := decode[mcp.CreateMessageParams](raw)
		if err != nil {
			return nil, err
		}
		return h.HandleSamplingCreateMessage(ctx, p)
	case mcp.MethodRootsList:
		return h.HandleRootsList(ctx)
	default:
		return h.HandleCustomRequest(ctx, method, raw)
	}
}

func (r *Router) invokeNotification(ctx context.Context, method string, raw json.RawMessage) error {
	h := r.handler
	switch mcp.Method(method) {
	case mcp.NotificationInitialized:
		h.HandleInitializedNotification(ctx)
	case mcp.NotificationProgress:
		p, err := decode[mcp.ProgressNotification](raw)
		if err != nil {
			return err
		}
		h.HandleProgressNotification(ctx, p)
	case mcp.NotificationMessage:
		p, err := decode[mcp.LogMessageNotification](raw)
		if err != nil {
			return err
		}
		h.HandleMessageNotification(ctx, p)
	case mcp.NotificationCancelled:
		p, err := decode[mcp.CancelledNotification](raw)
		if err != nil {
			return err
		}
		h.HandleCancelledNotification(ctx, p)
	case mcp.NotificationResourcesUpdated:
		p, err := decode[mcp.ResourcesUpdatedNotification](raw)
		if err != nil {
			return err
		}
		h.HandleResourcesUpdatedNotification(ctx, p)
	case mcp.NotificationToolsListChanged:
		h.HandleToolsListChangedNotification(ctx)
	case mcp.NotificationPromptsListChanged:
		h.HandlePromptsListChangedNotification(ctx)
	case mcp.NotificationRootsListChanged:
		h.HandleRootsListChangedNotification(ctx)
	default:
		h.HandleCustomNotification(ctx, method, raw)
	}
	return nil
}
