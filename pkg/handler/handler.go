// Package handler defines the polymorphic contract a server or client
// implements to serve MCP requests and notifications (spec §4.4). It
// replaces what the Rust source models as a trait object with default
// method bodies: Go has no default interface methods, so BaseHandler
// supplies the defaults and concrete handlers embed it and override only
// what they serve.
package handler

import (
	"context"
	"encoding/json"

	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// ListParams is the shared params shape for the three list methods:
// resources/list, tools/list, prompts/list. All three page the same way
// (spec §4.6: cursor-based pagination).
type ListParams struct {
	Cursor string `json:"cursor,omitempty"`
}

// Handler is the full capability surface the router dispatches against.
// handle_initialize is the one method every implementer MUST override
// meaningfully; every other method defaults to method-not-found via
// BaseHandler.
type Handler interface {
	HandleInitialize(ctx context.Context, params *mcp.InitializeParams) (*mcp.InitializeResult, error)
	HandlePing(ctx context.Context, params *mcp.PingParams) (*mcp.PingResult, error)

	HandleResourcesList(ctx context.Context, params *ListParams) (*mcp.ResourcesListResult, error)
	HandleResourcesRead(ctx context.Context, params *mcp.ResourcesReadParams) (*mcp.ResourcesReadResult, error)
	HandleResourcesSubscribe(ctx context.Context, params *mcp.ResourcesSubscribeParams) error
	HandleResourcesUnsubscribe(ctx context.Context, params *mcp.ResourcesUnsubscribeParams) error

	HandleToolsList(ctx context.Context, params *ListParams) (*mcp.ToolsListResult, error)
	HandleToolsCall(ctx context.Context, params *mcp.ToolsCallParams) (*mcp.ToolsCallResult, error)

	HandlePromptsList(ctx context.Context, params *ListParams) (*mcp.PromptsListResult, error)
	HandlePromptsGet(ctx context.Context, params *mcp.PromptsGetParams) (*mcp.PromptsGetResult, error)

	HandleLoggingSetLevel(ctx context.Context, params *mcp.SetLevelParams) error
	HandleSamplingCreateMessage(ctx context.Context, params *mcp.CreateMessageParams) (*mcp.CreateMessageResult, error)
	HandleRootsList(ctx context.Context) (*mcp.ListRootsResult, error)

	HandleInitializedNotification(ctx context.Context)
	HandleProgressNotification(ctx context.Context, n *mcp.ProgressNotification)
	HandleMessageNotification(ctx context.Context, n *mcp.LogMessageNotification)
	HandleCancelledNotification(ctx context.Context, n *mcp.CancelledNotification)
	HandleResourcesUpdatedNotification(ctx context.Context, n *mcp.ResourcesUpdatedNotification)
	HandleToolsListChangedNotification(ctx context.Context)
	HandlePromptsListChangedNotification(ctx context.Context)
	HandleRootsListChangedNotification(ctx context.Context)

	// HandleCustomRequest/HandleCustomNotification are the fallthrough
	// for any method name the router doesn't recognize (spec §4.3).
	HandleCustomRequest(ctx context.Context, method string, params json.RawMessage) (any, error)
	HandleCustomNotification(ctx context.Context, method string, params json.RawMessage)
}

// BaseHandler implements every Handler method as method-not-found (for
// requests) or a silent no-op (for notifications). Embed it in a
// concrete handler and override only the methods that handler serves.
type BaseHandler struct{}

var _ Handler = (*BaseHandler)(nil)

func notImplemented(method string) error {
	return mcperrors.New(mcperrors.KindMethodNotFound, method)
}

func (BaseHandler) HandleInitialize(ctx context.Context, params *mcp.InitializeParams) (*mcp.InitializeResult, error) {
	return nil, notImplemented("initialize")
}

// HandlePing is the one default with real behavior: echo the optional
// message field back (spec §4.4: "The default ping implementation
// echoes the optional message field").
func (BaseHandler) HandlePing(ctx context.Context, params *mcp.PingParams) (*mcp.PingResult, error) {
	if params == nil {
		return &mcp.PingResult{}, nil
	}
	return &mcp.PingResult{Message: params.Message}, nil
}

func (BaseHandler) HandleResourcesList(ctx context.Context, params *ListParams) (*mcp.ResourcesListResult, error) {
	return nil, notImplemented("resources/list")
}

func (BaseHandler) HandleResourcesRead(ctx context.Context, params *mcp.ResourcesReadParams) (*mcp.ResourcesReadResult, error) {
	return nil, notImplemented("resources/read")
}

func (BaseHandler) HandleResourcesSubscribe(ctx context.Context, params *mcp.ResourcesSubscribeParams) error {
	return notImplemented("resources/subscribe")
}

func (BaseHandler) HandleResourcesUnsubscribe(ctx context.Context, params *mcp.ResourcesUnsubscribeParams) error {
	return notImplemented("resources/unsubscribe")
}

func (BaseHandler) HandleToolsList(ctx context.Context, params *ListParams) (*mcp.ToolsListResult, error) {
	return nil, notImplemented("tools/list")
}

func (BaseHandler) HandleToolsCall(ctx context.Context, params *mcp.ToolsCallParams) (*mcp.ToolsCallResult, error) {
	return nil, notImplemented("tools/call")
}

func (BaseHandler) HandlePromptsList(ctx context.Context, params *ListParams) (*mcp.PromptsListResult, error) {
	return nil, notImplemented("prompts/list")
}

func (BaseHandler) HandlePromptsGet(ctx context.Context, params *mcp.PromptsGetParams) (*mcp.PromptsGetResult, error) {
	return nil, notImplemented("prompts/get")
}

func (BaseHandler) HandleLoggingSetLevel(ctx context.Context, params *mcp.SetLevelParams) error {
	return notImplemented("logging/setLevel")
}

func (BaseHandler) HandleSamplingCreateMessage(ctx context.Context, params *mcp.CreateMessageParams) (*mcp.CreateMessageResult, error) {
	return nil, notImplemented("sampling/createMessage")
}

func (BaseHandler) HandleRootsList(ctx context.Context) (*mcp.ListRootsResult, error) {
	return nil, notImplemented("roots/list")
}

func (BaseHandler) HandleInitializedNotification(ctx context.Context)                                 {}
func (BaseHandler) HandleProgressNotification(ctx context.Context, n *mcp.ProgressNotification)         {}
func (BaseHandler) HandleMessageNotification(ctx context.Context, n *mcp.LogMessageNotification)        {}
func (BaseHandler) HandleCancelledNotification(ctx context.Context, n *mcp.CancelledNotification)       {}
func (BaseHandler) HandleResourcesUpdatedNotification(ctx context.Context, n *mcp.ResourcesUpdatedNotification) {}
func (BaseHandler) HandleToolsListChangedNotification(ctx context.Context)                             {}
func (BaseHandler) HandlePromptsListChangedNotification(ctx context.Context)                           {}
func (BaseHandler) HandleRootsListChangedNotification(ctx context.Context)                             {}

// HandleCustomRequest defaults to method-not-found (spec §4.3: "the
// default custom behavior is to return method-not-found").
func (BaseHandler) HandleCustomRequest(ctx context.Context, method string, params json.RawMessage) (any, error) {
	return nil, notImplemented(method)
}

// HandleCustomNotification defaults to silently ignoring the
// notification (spec §4.3: "...and silently ignore").
func (BaseHandler) HandleCustomNotification(ctx context.Context, method string, params json.RawMessage) {
}
