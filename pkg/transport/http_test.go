package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSendPostsJSON(t *testing.T) {
	var gotContentType string
	var gotBody []byte

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	tr := NewHTTP(ts.URL)
	require.NoError(t, tr.Send(context.Background(), []byte(`{"jsonrpc":"2.0"}`)))

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, `{"jsonrpc":"2.0"}`, string(gotBody))
}

func TestHTTPReceiveAlwaysOrderlyClose(t *testing.T) {
	tr := NewHTTP("http://unused.invalid")
	msg, err := tr.Receive(context.Background())
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestHTTPSendAfterCloseFails(t *testing.T) {
	tr := NewHTTP("http://unused.invalid")
	require.NoError(t, tr.Close())
	err := tr.Send(context.Background(), []byte("x"))
	require.Error(t, err)
}
