package server

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loopbackTransport drives a Server under test as its lone peer: writes
// to out simulate a client's outbound traffic arriving at the server,
// and in captures what the server sends back.
type loopbackTransport struct {
	mu     sync.Mutex
	closed bool
	in     chan []byte
	out    chan []byte
}

func newLoopback() *loopbackTransport {
	return &loopbackTransport{in: make(chan []byte, 32), out: make(chan []byte, 32)}
}

func (l *loopbackTransport) Send(ctx context.Context, message []byte) error {
	cp := make([]byte, len(message))
	copy(cp, message)
	l.out <- cp
	return nil
}

func (l *loopbackTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case msg, ok := <-l.in:
		if !ok {
			return nil, nil
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *loopbackTransport) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		close(l.in)
	}
	return nil
}

func (l *loopbackTransport) IsConnected() bool { return !l.closed }
func (l *loopbackTransport) Type() string      { return "loopback" }

func sendRequest(t *testing.T, lt *loopbackTransport, method string, params any, id any) {
	t.Helper()
	req, err := jsonrpc.NewRequest(method, params, id)
	require.NoError(t, err)
	data, err := jsonrpc.EncodeRequest(req)
	require.NoError(t, err)
	lt.in <- data
}

func recvResponse(t *testing.T, lt *loopbackTransport) *jsonrpc.Response {
	t.Helper()
	select {
	case raw := <-lt.out:
		var resp jsonrpc.Response
		require.NoError(t, json.Unmarshal(raw, &resp))
		return &resp
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for server response")
		return nil
	}
}

func testServer(t *testing.T) *Server {
	t.Helper()
	tool := mcp.Tool{Name: "echo", Description: "echoes its argument"}
	srv, err := NewBuilder().
		WithInfo("test-server", "1.0").
		WithTools().
		WithTool(tool, func(ctx context.Context, args map[string]any) (*mcp.ToolsCallResult, error) {
			content, err := json.Marshal(map[string]string{"type": "text", "text": args["text"].(string)})
			if err != nil {
				return nil, err
			}
			return &mcp.ToolsCallResult{Content: []json.RawMessage{content}}, nil
		}).
		Build()
	require.NoError(t, err)
	return srv
}

func TestServerRejectsUnsupportedProtocolVersion(t *testing.T) {
	srv := testServer(t)
	lt := newLoopback()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx, lt)

	sendRequest(t, lt, string(mcp.MethodInitialize), mcp.InitializeParams{
		ProtocolVersion: "1999-01-01",
		ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0"},
	}, "1")

	resp := recvResponse(t, lt)
	require.NotNil(t, resp.Error)
}

func TestServerHandshakeAndToolCall(t *testing.T) {
	srv := testServer(t)
	lt := newLoopback()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx, lt)

	sendRequest(t, lt, string(mcp.MethodInitialize), mcp.InitializeParams{
		ProtocolVersion: mcp.SupportedProtocolVersion,
		ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0"},
	}, "1")

	initResp := recvResponse(t, lt)
	require.Nil(t, initResp.Error)
	var initResult mcp.InitializeResult
	require.NoError(t, json.Unmarshal(initResp.Result, &initResult))
	assert.Equal(t, "test-server", initResult.ServerInfo.Name)

	// Client sends the initialized notification; no response expected.
	notif, err := jsonrpc.NewNotification(string(mcp.NotificationInitialized), nil)
	require.NoError(t, err)
	data, err := jsonrpc.EncodeNotification(notif)
	require.NoError(t, err)
	lt.in <- data

	sendRequest(t, lt, string(mcp.MethodToolsCall), mcp.ToolsCallParams{
		Name:      "echo",
		Arguments: map[string]any{"text": "hello"},
	}, "2")

	callResp := recvResponse(t, lt)
	require.Nil(t, callResp.Error)
	var result mcp.ToolsCallResult
	require.NoError(t, json.Unmarshal(callResp.Result, &result))
	require.Len(t, result.Content, 1)
}

// handshake drives initialize + the initialized notification over lt,
// the minimum needed before a session will serve any other request.
func handshake(t *testing.T, lt *loopbackTransport) {
	t.Helper()
	sendRequest(t, lt, string(mcp.MethodInitialize), mcp.InitializeParams{
		ProtocolVersion: mcp.SupportedProtocolVersion,
		ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0"},
	}, "init")
	initResp := recvResponse(t, lt)
	require.Nil(t, initResp.Error)

	notif, err := jsonrpc.NewNotification(string(mcp.NotificationInitialized), nil)
	require.NoError(t, err)
	data, err := jsonrpc.EncodeNotification(notif)
	require.NoError(t, err)
	lt.in <- data
}

func TestServerUnknownToolReturnsMethodNotFoundCode(t *testing.T) {
	srv := testServer(t)
	lt := newLoopback()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx, lt)

	handshake(t, lt)

	sendRequest(t, lt, string(mcp.MethodToolsCall), mcp.ToolsCallParams{Name: "nope"}, "1")

	resp := recvResponse(t, lt)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
	assert.Equal(t, "nope", resp.Error.Message)
}

// TestServerRejectsRequestBeforeInitialized covers spec invariant 2 at
// the server's own transport boundary: a tool call arriving before the
// handshake completes is rejected, not served.
func TestServerRejectsRequestBeforeInitialized(t *testing.T) {
	srv := testServer(t)
	lt := newLoopback()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx, lt)

	sendRequest(t, lt, string(mcp.MethodToolsCall), mcp.ToolsCallParams{Name: "echo"}, "1")

	resp := recvResponse(t, lt)
	require.NotNil(t, resp.Error)
}

// TestServerResourceSubscriptionNotifiesOnlyWhenSubscribed exercises the
// resources/subscribe bookkeeping end to end: subscribing addresses
// notifications/resources/updated to the session, unsubscribing (or
// never subscribing) does not.
func TestServerResourceSubscriptionNotifiesOnlyWhenSubscribed(t *testing.T) {
	res := mcp.Resource{URI: "file:///a.txt", Name: "a.txt"}
	srv, err := NewBuilder().
		WithInfo("test-server", "1.0").
		WithResources().
		WithResource(res, func(ctx context.Context, uri string) (*mcp.ResourcesReadResult, error) {
			return &mcp.ResourcesReadResult{}, nil
		}).
		Build()
	require.NoError(t, err)

	lt := newLoopback()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx, lt)

	handshake(t, lt)

	// Before subscribing, a notify attempt is a silent no-op.
	require.NoError(t, srv.NotifyResourceUpdated(ctx, res.URI))

	sendRequest(t, lt, string(mcp.MethodResourcesSubscribe), mcp.ResourcesSubscribeParams{URI: res.URI}, "2")
	subResp := recvResponse(t, lt)
	require.Nil(t, subResp.Error)

	require.NoError(t, srv.NotifyResourceUpdated(ctx, res.URI))
	select {
	case raw := <-lt.out:
		var notif jsonrpc.Notification
		require.NoError(t, json.Unmarshal(raw, &notif))
		assert.Equal(t, string(mcp.NotificationResourcesUpdated), notif.Method)
		var n mcp.ResourcesUpdatedNotification
		require.NoError(t, json.Unmarshal(notif.Params, &n))
		assert.Equal(t, res.URI, n.URI)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for resources/updated notification")
	}

	sendRequest(t, lt, string(mcp.MethodResourcesUnsubscribe), mcp.ResourcesUnsubscribeParams{URI: res.URI}, "3")
	unsubResp := recvResponse(t, lt)
	require.Nil(t, unsubResp.Error)

	// After unsubscribing, a notify attempt sends nothing.
	require.NoError(t, srv.NotifyResourceUpdated(ctx, res.URI))
	select {
	case raw := <-lt.out:
		t.Fatalf("unexpected message after unsubscribe: %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestServerRunExitsOnOrderlyClose(t *testing.T) {
	srv := testServer(t)
	lt := newLoopback()
	lt.Close()

	err := srv.Run(context.Background(), lt)
	assert.NoError(t, err)
}
