package session

import (
	"context"
	"sync"

	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// fakeTransport is an in-memory, loopback-free pipe used to exercise the
// session engine without a real socket: inbound() feeds messages as if
// received off the wire, and Sent() drains what the session wrote.
type fakeTransport struct {
	mu        sync.Mutex
	closed    bool
	in        chan []byte
	out       chan []byte
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		in:  make(chan []byte, 64),
		out: make(chan []byte, 64),
	}
}

func (f *fakeTransport) Send(ctx context.Context, message []byte) error {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return mcperrors.New(mcperrors.KindClosed, "transport closed")
	}
	cp := make([]byte, len(message))
	copy(cp, message)
	f.out <- cp
	return nil
}

func (f *fakeTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case msg, ok := <-f.in:
		if !ok {
			return nil, nil
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.in)
	}
	return nil
}

func (f *fakeTransport) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}

func (f *fakeTransport) Type() string { return "fake" }

// deliver simulates an inbound wire message arriving.
func (f *fakeTransport) deliver(msg []byte) {
	f.in <- msg
}

// nextSent blocks until the session writes a message, returning it.
func (f *fakeTransport) nextSent() []byte {
	return <-f.out
}
