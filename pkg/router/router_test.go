package router

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/richard-senior/mcpsession/pkg/handler"
	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	handler.BaseHandler
}

func (fakeHandler) HandleToolsCall(ctx context.Context, params *mcp.ToolsCallParams) (*mcp.ToolsCallResult, error) {
	return nil, mcperrors.New(mcperrors.KindToolNotFound, params.Name)
}

func TestDispatchRequestUnknownToolReturnsMethodNotFoundCode(t *testing.T) {
	r := New(fakeHandler{})
	raw, _ := json.Marshal(mcp.ToolsCallParams{Name: "nope"})
	req := &jsonrpc.Request{Method: "tools/call", Params: raw, ID: float64(2)}

	resp := r.DispatchRequest(context.Background(), req)

	require.NotNil(t, resp.Error)
	assert.Equal(t, mcperrors.CodeMethodNotFound, resp.Error.Code)
	assert.Equal(t, "nope", resp.Error.Message)
}

func TestDispatchRequestPingEchoesMessage(t *testing.T) {
	r := New(fakeHandler{})
	raw, _ := json.Marshal(mcp.PingParams{Message: "hi"})
	req := &jsonrpc.Request{Method: "ping", Params: raw, ID: float64(1)}

	resp := r.DispatchRequest(context.Background(), req)

	require.Nil(t, resp.Error)
	var result mcp.PingResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "hi", result.Message)
}

func TestDispatchRequestUnknownMethodFallsThroughToCustom(t *testing.T) {
	r := New(fakeHandler{})
	req := &jsonrpc.Request{Method: "mcp/whatever", ID: float64(3)}

	resp := r.DispatchRequest(context.Background(), req)

	require.NotNil(t, resp.Error)
	assert.Equal(t, mcperrors.CodeMethodNotFound, resp.Error.Code)
}

func TestDispatchNotificationNeverPanicsOnError(t *testing.T) {
	r := New(fakeHandler{})
	n := &jsonrpc.Notification{Method: "notifications/progress", Params: json.RawMessage(`not json`)}
	assert.NotPanics(t, func() {
		r.DispatchNotification(context.Background(), n)
	})
}
