// Package middleware implements the before_request/after_response/on_error
// pipeline that wraps every inbound request (spec §4.7). Hooks compose in
// declaration order on the way in and reverse order on the way out; any
// error short-circuits the remaining chain and becomes the response.
package middleware

import (
	"context"

	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// Hook is one stage of the pipeline. BeforeRequest runs in declaration
// order before the handler; an error aborts the request. AfterResponse
// runs in reverse order after a successful handler call. OnError runs on
// any failure, from any phase, for every hook in the pipeline.
type Hook interface {
	BeforeRequest(ctx context.Context, req *jsonrpc.Request) error
	AfterResponse(ctx context.Context, req *jsonrpc.Request, resp *jsonrpc.Response) error
	OnError(ctx context.Context, req *jsonrpc.Request, err error)
}

// BaseHook implements Hook as a no-op default, the same embeddable-default
// idiom as handler.BaseHandler — a concrete hook only overrides what it
// needs.
type BaseHook struct{}

func (BaseHook) BeforeRequest(ctx context.Context, req *jsonrpc.Request) error { return nil }
func (BaseHook) AfterResponse(ctx context.Context, req *jsonrpc.Request, resp *jsonrpc.Response) error {
	return nil
}
func (BaseHook) OnError(ctx context.Context, req *jsonrpc.Request, err error) {}

var _ Hook = BaseHook{}

// Pipeline is an ordered sequence of hooks wrapping a request dispatch.
type Pipeline struct {
	hooks []Hook
}

// New builds a pipeline from hooks in declaration order.
func New(hooks ...Hook) *Pipeline {
	return &Pipeline{hooks: hooks}
}

// Use appends a hook to the end of the declaration order.
func (p *Pipeline) Use(h Hook) {
	p.hooks = append(p.hooks, h)
}

// Run executes the pipeline around next, the router dispatch. It always
// returns a response: before_request failures and handler errors are both
// turned into an error response via the same code mapping the router uses.
func (p *Pipeline) Run(ctx context.Context, req *jsonrpc.Request, next func(context.Context, *jsonrpc.Request) *jsonrpc.Response) *jsonrpc.Response {
	for _, h := range p.hooks {
		if err := h.BeforeRequest(ctx, req); err != nil {
			p.fireOnError(ctx, req, err)
			return errorResponse(req, err)
		}
	}

	resp := next(ctx, req)

	if resp.Error != nil {
		err := mcperrors.New(mcperrors.KindInternal, resp.Error.Message)
		p.fireOnError(ctx, req, err)
		return resp
	}

	for i := len(p.hooks) - 1; i >= 0; i-- {
		if err := p.hooks[i].AfterResponse(ctx, req, resp); err != nil {
			p.fireOnError(ctx, req, err)
			return errorResponse(req, err)
		}
	}

	return resp
}

func (p *Pipeline) fireOnError(ctx context.Context, req *jsonrpc.Request, err error) {
	for _, h := range p.hooks {
		h.OnError(ctx, req, err)
	}
}

func errorResponse(req *jsonrpc.Request, err error) *jsonrpc.Response {
	code := mcperrors.CodeInternal
	if mcpErr, ok := err.(*mcperrors.Error); ok {
		code = mcpErr.Code()
	}
	return jsonrpc.NewErrorResponse(code, mcperrors.WireMessage(err), nil, req.ID)
}
