// Package client implements a high-level MCP client: connect over any
// Transport, perform the initialize handshake, then call the typed
// request methods (spec §4.5, client side). Grounded on
// mocopr-client/src/lib.rs's McpClient.
package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/richard-senior/mcpsession/pkg/handler"
	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
	"github.com/richard-senior/mcpsession/pkg/router"
	"github.com/richard-senior/mcpsession/pkg/session"
	"github.com/richard-senior/mcpsession/pkg/transport"
)

// Client is a connected, initialized MCP session plus the typed call
// surface a consumer actually wants to use.
type Client struct {
	sess         *session.Session
	info         mcp.Implementation
	capabilities mcp.ClientCapabilities
	serverInfo   mcp.Implementation
	runErr       chan error
}

// Connect wraps an already-open Transport in a Session, starts its
// receive loop, performs the initialize handshake, and returns a ready
// Client. The caller owns closing t (via Close) when done.
func Connect(ctx context.Context, t transport.Transport, info mcp.Implementation, caps mcp.ClientCapabilities) (*Client, error) {
	r := router.New(handler.BaseHandler{})
	sess := session.New(t, r)

	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()

	go sess.RunTimeoutSweeper(ctx, session.DefaultTimeout/3)

	result, err := sess.Initialize(ctx, info, caps, mcp.SupportedProtocolVersion)
	if err != nil {
		sess.Shutdown()
		return nil, err
	}

	return &Client{
		sess:         sess,
		info:         info,
		capabilities: caps,
		serverInfo:   result.ServerInfo,
		runErr:       runErr,
	}, nil
}

// ConnectStdio spawns a child MCP server process and connects to it over
// stdio.
func ConnectStdio(ctx context.Context, info mcp.Implementation, caps mcp.ClientCapabilities) (*Client, error) {
	return Connect(ctx, transport.NewProcessStdio(), info, caps)
}

// ConnectWebSocket dials url and connects over WebSocket.
func ConnectWebSocket(ctx context.Context, url string, info mcp.Implementation, caps mcp.ClientCapabilities) (*Client, error) {
	ws, err := transport.DialWebSocket(ctx, url)
	if err != nil {
		return nil, err
	}
	return Connect(ctx, ws, info, caps)
}

func (c *Client) ClientInfo() mcp.Implementation         { return c.info }
func (c *Client) ServerInfo() mcp.Implementation         { return c.serverInfo }
func (c *Client) Capabilities() mcp.ClientCapabilities   { return c.capabilities }
func (c *Client) IsConnected() bool                      { return c.sess.IsInitialized() }
func (c *Client) SessionState() session.State            { return c.sess.State() }

// Close shuts down the session; outstanding calls return an error
// (cancelled or closed, whichever the call observes first) rather than
// hanging.
func (c *Client) Close() error {
	c.sess.Shutdown()
	return nil
}

func call[T any](ctx context.Context, c *Client, method string, params any) (*T, error) {
	resp, err := c.sess.SendRequest(ctx, method, params, session.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, mcperrors.New(mcperrors.KindInternal, resp.Error.Message)
	}
	var result T
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &result); err != nil {
			return nil, mcperrors.Wrap(mcperrors.KindParseError, "invalid response result", err)
		}
	}
	return &result, nil
}

func (c *Client) ListResources(ctx context.Context, cursor string) (*mcp.ResourcesListResult, error) {
	return call[mcp.ResourcesListResult](ctx, c, string(mcp.MethodResourcesList), handler.ListParams{Cursor: cursor})
}

func (c *Client) ReadResource(ctx context.Context, uri string) (*mcp.ResourcesReadResult, error) {
	return call[mcp.ResourcesReadResult](ctx, c, string(mcp.MethodResourcesRead), mcp.ResourcesReadParams{URI: uri})
}

func (c *Client) ListTools(ctx context.Context, cursor string) (*mcp.ToolsListResult, error) {
	return call[mcp.ToolsListResult](ctx, c, string(mcp.MethodToolsList), handler.ListParams{Cursor: cursor})
}

func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (*mcp.ToolsCallResult, error) {
	return call[mcp.ToolsCallResult](ctx, c, string(mcp.MethodToolsCall), mcp.ToolsCallParams{Name: name, Arguments: arguments})
}

func (c *Client) ListPrompts(ctx context.Context, cursor string) (*mcp.PromptsListResult, error) {
	return call[mcp.PromptsListResult](ctx, c, string(mcp.MethodPromptsList), handler.ListParams{Cursor: cursor})
}

func (c *Client) GetPrompt(ctx context.Context, name string, arguments map[string]string) (*mcp.PromptsGetResult, error) {
	return call[mcp.PromptsGetResult](ctx, c, string(mcp.MethodPromptsGet), mcp.PromptsGetParams{Name: name, Arguments: arguments})
}

func (c *Client) Ping(ctx context.Context, message string) (*mcp.PingResult, error) {
	return call[mcp.PingResult](ctx, c, string(mcp.MethodPing), mcp.PingParams{Message: message})
}

// CallTimeout behaves like the typed call methods above but lets the
// caller override the default request timeout (spec §4.5 step 2).
func (c *Client) CallTimeout(ctx context.Context, method string, params any, timeout time.Duration) (*jsonrpc.Response, error) {
	return c.sess.SendRequest(ctx, method, params, timeout)
}
