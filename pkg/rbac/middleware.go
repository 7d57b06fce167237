package rbac

import (
	"context"

	"github.com/richard-senior/mcpsession/internal/logger"
	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
	"github.com/richard-senior/mcpsession/pkg/middleware"
)

// Hook is the RBAC before_request check (spec §4.7.4): extract subject,
// resource, action and context from the request, then consult Engine. A
// denied request short-circuits the pipeline with a permission-denied
// error.
type Hook struct {
	middleware.BaseHook

	Engine        *Engine
	ContextExtractor ContextExtractor
	AuditEnabled  bool
}

// NewHook builds an RBAC hook over engine using the default context
// extractor; override ContextExtractor on the returned Hook to customize.
func NewHook(engine *Engine, auditEnabled bool) *Hook {
	return &Hook{
		Engine:           engine,
		ContextExtractor: DefaultContextExtractor{},
		AuditEnabled:     auditEnabled,
	}
}

func (h *Hook) BeforeRequest(ctx context.Context, req *jsonrpc.Request) error {
	subject := ExtractSubject(req)
	resource, err := ExtractResource(req)
	if err != nil {
		h.audit(subject, ExtractAction(req), Resource{}, false)
		return err
	}
	action := ExtractAction(req)
	reqCtx := h.ContextExtractor.Extract(req)

	granted := h.Engine.Check(subject.ID, action, resource.Type, resource.ID, reqCtx)
	h.audit(subject, action, resource, granted)

	if !granted {
		return mcperrors.New(mcperrors.KindPermissionDenied,
			"subject "+subject.ID+" denied "+action+" on "+resource.Type+":"+resource.ID)
	}
	return nil
}

func (h *Hook) audit(subject Subject, action string, resource Resource, granted bool) {
	if !h.AuditEnabled {
		return
	}
	fields := logger.Fields{
		"subject":  subject.ID,
		"action":   action,
		"resource": resource.ID,
		"result":   granted,
	}
	if granted {
		logger.Audit(logger.INFO, "rbac permission check", fields)
	} else {
		logger.Audit(logger.WARN, "rbac permission check", fields)
	}
}

var _ middleware.Hook = (*Hook)(nil)
