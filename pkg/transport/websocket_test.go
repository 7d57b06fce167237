package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketRoundTrip(t *testing.T) {
	var server *WebSocket
	ready := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws, err := AcceptWebSocket(w, r)
		require.NoError(t, err)
		server = ws
		close(ready)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	client, err := DialWebSocket(context.Background(), wsURL)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted the websocket")
	}
	defer server.Close()

	require.NoError(t, client.Send(context.Background(), []byte(`{"jsonrpc":"2.0","method":"ping"}`)))

	msg, err := server.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"jsonrpc":"2.0","method":"ping"}`, string(msg))

	assert.Equal(t, "websocket", client.Type())
	assert.True(t, client.IsConnected())
}

func TestWebSocketCloseIsOrderly(t *testing.T) {
	mux := http.NewServeMux()
	serverDone := make(chan error, 1)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws, err := AcceptWebSocket(w, r)
		require.NoError(t, err)
		_, err = ws.Receive(context.Background())
		serverDone <- err
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	client, err := DialWebSocket(context.Background(), wsURL)
	require.NoError(t, err)

	require.NoError(t, client.Close())

	select {
	case err := <-serverDone:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server never observed the close")
	}
}
