package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/richard-senior/mcpsession/internal/logger"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebSocket carries one message per WebSocket text frame. Binary frames
// are decoded as UTF-8; ping frames are auto-ponged and transparently
// filtered out of Receive; a close frame is an orderly close. Reconnect
// tears down and re-establishes the underlying connection while
// preserving the dial configuration (spec §4.2).
type WebSocket struct {
	dialer *websocket.Dialer
	url    string
	header map[string][]string

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// DialWebSocket opens a WebSocket connection to url.
func DialWebSocket(ctx context.Context, url string) (*WebSocket, error) {
	ws := &WebSocket{dialer: websocket.DefaultDialer, url: url}
	if err := ws.dial(ctx); err != nil {
		return nil, err
	}
	return ws, nil
}

func (t *WebSocket) dial(ctx context.Context) error {
	conn, _, err := t.dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return mcperrors.Wrap(mcperrors.KindConnectionFailed, "dial "+t.url, err)
	}
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	t.mu.Lock()
	t.conn = conn
	t.closed = false
	t.mu.Unlock()

	go t.pingLoop(conn)
	return nil
}

// pingLoop keeps the connection alive; gorilla/websocket auto-ponds
// inbound pings via the default handler, this loop is the outbound half.
func (t *WebSocket) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		t.mu.Lock()
		current := t.conn
		closed := t.closed
		t.mu.Unlock()
		if closed || current != conn {
			return
		}
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
			logger.Debug("websocket ping failed", err)
			return
		}
	}
}

func (t *WebSocket) Send(ctx context.Context, message []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.conn == nil {
		return mcperrors.New(mcperrors.KindClosed, "websocket transport closed")
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return mcperrors.Wrap(mcperrors.KindSendFailed, "write websocket frame", err)
	}
	return nil
}

func (t *WebSocket) Receive(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return nil, mcperrors.New(mcperrors.KindNotReady, "websocket not connected")
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) {
				return nil, nil
			}
			return nil, mcperrors.Wrap(mcperrors.KindReceiveFailed, "read websocket frame", err)
		}
		switch msgType {
		case websocket.TextMessage, websocket.BinaryMessage:
			return data, nil
		default:
			// Ping/pong control frames are handled by the library's
			// pong handler and never surfaced here; loop for the next
			// data frame.
			continue
		}
	}
}

func (t *WebSocket) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.conn != nil {
		t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		return t.conn.Close()
	}
	return nil
}

func (t *WebSocket) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed && t.conn != nil
}

func (t *WebSocket) Type() string { return "websocket" }

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// AcceptWebSocket upgrades an incoming HTTP request to a WebSocket
// connection — the server-side counterpart to DialWebSocket.
func AcceptWebSocket(w http.ResponseWriter, r *http.Request) (*WebSocket, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, mcperrors.Wrap(mcperrors.KindConnectionFailed, "upgrade websocket", err)
	}
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ws := &WebSocket{conn: conn}
	go ws.pingLoop(conn)
	return ws, nil
}

// Reconnect tears down the current connection (if any) and re-dials the
// original URL, preserving the dialer configuration.
func (t *WebSocket) Reconnect(ctx context.Context) error {
	t.mu.Lock()
	if t.conn != nil {
		t.conn.Close()
	}
	t.mu.Unlock()
	return t.dial(ctx)
}
