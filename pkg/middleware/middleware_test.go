package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	resp, _ := jsonrpc.NewResultResponse(map[string]string{"ok": "true"}, req.ID)
	return resp
}

func TestPipelineRunsHooksAndHandler(t *testing.T) {
	p := New(NewLoggingHook())
	req := &jsonrpc.Request{Method: "ping", ID: float64(1)}

	resp := p.Run(context.Background(), req, echoHandler)

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
}

type rejectHook struct {
	BaseHook
}

func (rejectHook) BeforeRequest(ctx context.Context, req *jsonrpc.Request) error {
	return mcperrors.New(mcperrors.KindPermissionDenied, "nope")
}

func TestPipelineBeforeRequestErrorShortCircuits(t *testing.T) {
	called := false
	p := New(rejectHook{})
	req := &jsonrpc.Request{Method: "ping", ID: float64(1)}

	resp := p.Run(context.Background(), req, func(ctx context.Context, r *jsonrpc.Request) *jsonrpc.Response {
		called = true
		return echoHandler(ctx, r)
	})

	require.NotNil(t, resp.Error)
	assert.False(t, called)
	assert.Equal(t, mcperrors.CodeSecurity, resp.Error.Code)
}

func TestRateLimitHookAdmitsUnderMaxThenRejects(t *testing.T) {
	h := NewRateLimitHook(3, time.Second)
	req := &jsonrpc.Request{Method: "ping"}

	for i := 0; i < 3; i++ {
		require.NoError(t, h.BeforeRequest(context.Background(), req))
	}
	err := h.BeforeRequest(context.Background(), req)
	require.Error(t, err)
	var mcpErr *mcperrors.Error
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, mcperrors.KindRateLimited, mcpErr.Kind)
}

func TestRateLimitHookExpiresOldEntries(t *testing.T) {
	h := NewRateLimitHook(1, 20*time.Millisecond)
	req := &jsonrpc.Request{Method: "ping"}

	require.NoError(t, h.BeforeRequest(context.Background(), req))
	require.Error(t, h.BeforeRequest(context.Background(), req))

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, h.BeforeRequest(context.Background(), req))
}

func TestAuthHookDisabledWhenNoKeysConfigured(t *testing.T) {
	h := NewAuthHook()
	req := &jsonrpc.Request{Method: "ping"}
	require.NoError(t, h.BeforeRequest(context.Background(), req))
}

func TestAuthHookRejectsMissingKey(t *testing.T) {
	h := NewAuthHook("secret")
	req := &jsonrpc.Request{Method: "ping", Params: []byte(`{}`)}
	err := h.BeforeRequest(context.Background(), req)
	require.Error(t, err)
}

func TestAuthHookAdmitsValidKey(t *testing.T) {
	h := NewAuthHook("secret")
	req := &jsonrpc.Request{Method: "ping", Params: []byte(`{"auth":{"api_key":"secret"}}`)}
	require.NoError(t, h.BeforeRequest(context.Background(), req))
}
