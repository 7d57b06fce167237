package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// HTTP is the request-response-only variant (spec §4.2): Send posts the
// message with Content-Type: application/json; Receive always returns
// (nil, nil) since there is no server-push in this variant. Declared
// suitable only for simple one-way integration tests; a session run over
// HTTP is expected to degenerate into single request/response exchanges
// (spec §9 Design Note — no SSE/long-poll is invented here).
//
// The client construction idiom (custom *http.Client, redirect policy,
// explicit timeout) is adapted from the teacher's
// pkg/transport/httpclient.go GetCustomHTTPClient.
type HTTP struct {
	url    string
	client *http.Client

	mu     sync.Mutex
	closed bool
}

// NewHTTP builds an HTTP transport posting to url.
func NewHTTP(url string) *HTTP {
	return &HTTP{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return mcperrors.New(mcperrors.KindNetwork, "stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

func (t *HTTP) Send(ctx context.Context, message []byte) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return mcperrors.New(mcperrors.KindClosed, "http transport closed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(message))
	if err != nil {
		return mcperrors.Wrap(mcperrors.KindSendFailed, "build http request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return mcperrors.Wrap(mcperrors.KindSendFailed, "post to "+t.url, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return mcperrors.New(mcperrors.KindSendFailed, resp.Status)
	}
	return nil
}

// Receive always reports orderly close: this variant cannot receive a
// server-initiated message.
func (t *HTTP) Receive(ctx context.Context) ([]byte, error) {
	return nil, nil
}

func (t *HTTP) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func (t *HTTP) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

func (t *HTTP) Type() string { return "http" }
