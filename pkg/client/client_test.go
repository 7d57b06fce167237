package client

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

// loopbackTransport is a minimal in-memory Transport used to drive the
// client against a scripted fake server in tests.
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

// fakeServer answers exactly one request per call with the given result,
// simulating a well-behaved MCP server peer.
func fakeServer(t *testing.T, lt *loopbackTransport, result any) {
	t.Helper()
	raw := <-lt.out
	var req jsonrpc.Request
	require.NoError(t, json.Unmarshal(raw, &req))
	resp, err := jsonrpc.NewResultResponse(result, req.ID)
	require.NoError(t, err)
	data, err := jsonrpc.EncodeResponse(resp)
	require.NoError(t, err)
	lt.in <- data
}

func connectTestClient(t *testing.T) (*Client, *loopbackTransport, context.Context, context.CancelFunc) {
	t.Helper()
	lt := newLoopback()
	ctx, cancel := context.WithCancel(context.Background())

	info := mcp.Implementation{Name: "test-client", Version: "1.0"}
	caps := mcp.ClientCapabilities{}

	done := make(chan struct {
		c   *Client
		err error
	}, 1)
	go func() {
		c, err := Connect(ctx, lt, info, caps)
		done <- struct {
			c   *Client
			err error
		}{c, err}
	}()

	fakeServer(t, lt, mcp.InitializeResult{
		ProtocolVersion: mcp.SupportedProtocolVersion,
		ServerInfo:      mcp.Implementation{Name: "test-server", Version: "2.0"},
	})
	// Drain the initialized notification the client fires after a
	// successful handshake.
	<-lt.out

	out := <-done
	require.NoError(t, out.err)
	require.NotNil(t, out.c)
	return out.c, lt, ctx, cancel
}

func TestConnectPerformsHandshake(t *testing.T) {
	c, _, _, cancel := connectTestClient(t)
	defer cancel()
	defer c.Close()

	assert.True(t, c.IsConnected())
	assert.Equal(t, "test-server", c.ServerInfo().Name)
}

func TestCallToolRoundTrip(t *testing.T) {
	c, lt, _, cancel := connectTestClient(t)
	defer cancel()
	defer c.Close()

	resultCh := make(chan *mcp.ToolsCallResult, 1)
	errCh := make(chan error, 1)
	go func() {
		result, err := c.CallTool(context.Background(), "calculate", map[string]any{"expression": "2+2"})
		resultCh <- result
		errCh <- err
	}()

	content, err := json.Marshal(map[string]string{"type": "text", "text": "4"})
	require.NoError(t, err)
	fakeServer(t, lt, mcp.ToolsCallResult{Content: []json.RawMessage{content}})

	require.NoError(t, <-errCh)
	result := <-resultCh
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
}

func TestPingEcho(t *testing.T) {
	c, lt, _, cancel := connectTestClient(t)
	defer cancel()
	defer c.Close()

	resultCh := make(chan *mcp.PingResult, 1)
	errCh := make(chan error, 1)
	go func() {
		result, err := c.Ping(context.Background(), "hi")
		resultCh <- result
		errCh <- err
	}()

	fakeServer(t, lt, mcp.PingResult{Message: "hi"})

	require.NoError(t, <-errCh)
	result := <-resultCh
	assert.Equal(t, "hi", result.Message)
}

func TestCloseUnblocksPendingCall(t *testing.T) {
	c, _, _, cancel := connectTestClient(t)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		_, err := c.CallTool(context.Background(), "slow", nil)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	c.Close()

	select {
	case <-errCh:
	case <-time.After(time.Second):
		t.Fatal("CallTool did not unblock after Close")
	}
}
