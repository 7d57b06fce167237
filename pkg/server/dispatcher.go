package server

import (
	"context"

	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/middleware"
	"github.com/richard-senior/mcpsession/pkg/router"
)

// pipelinedDispatcher wraps a Router's request dispatch in a middleware
// Pipeline, satisfying router.Dispatcher so a Session can run requests
// through logging/auth/rate-limit/RBAC/monitoring hooks without the
// session engine knowing middleware exists (spec §4.7: the pipeline
// wraps the router, it isn't part of it). Notifications bypass the
// pipeline and go straight to the router, matching spec §4.3's
// notification dispatch (no response to instrument).
type pipelinedDispatcher struct {
	router   *router.Router
	pipeline *middleware.Pipeline
}

var _ router.Dispatcher = (*pipelinedDispatcher)(nil)

func newPipelinedDispatcher(r *router.Router, p *middleware.Pipeline) *pipelinedDispatcher {
	return &pipelinedDispatcher{router: r, pipeline: p}
}

func (d *pipelinedDispatcher) DispatchRequest(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	return d.pipeline.Run(ctx, req, d.router.DispatchRequest)
}

func (d *pipelinedDispatcher) DispatchNotification(ctx context.Context, n *jsonrpc.Notification) {
	d.router.DispatchNotification(ctx, n)
}
