// Package transport defines the ordered, byte-framed bidirectional
// channel abstraction the session engine runs over, and the three
// concrete variants this implementation supports: stdio, WebSocket and
// degenerate request/response HTTP (spec §4.2).
package transport

import "context"

// Transport is the full contract every concrete variant implements.
// Messages returned from Receive are in the order they were read off the
// wire; Send is serialized by the caller (the session's send-lock, spec
// §5) — a Transport implementation need not itself be safe for
// concurrent Send calls, though the WebSocket variant guards one anyway
// since the underlying library forbids concurrent writers.
type Transport interface {
	// Send enqueues one framed message. It returns a mcperrors.Error
	// with KindSendFailed (or KindClosed if Close was already called).
	Send(ctx context.Context, message []byte) error

	// Receive yields the next inbound frame. A (nil, nil) return
	// signals orderly close — there is no further message coming.
	Receive(ctx context.Context) ([]byte, error)

	// Close is idempotent; any Send after Close fails with KindClosed.
	Close() error

	IsConnected() bool

	// Type returns a short label identifying the transport variant,
	// e.g. "stdio", "websocket", "http".
	Type() string
}
