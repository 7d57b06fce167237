package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/middleware"
)

// Hook is the middleware pipeline stage that feeds a Collector and an
// optional Exporter from real request timing, using the same keyed
// start-time map idiom as middleware.LoggingHook.
type Hook struct {
	middleware.BaseHook

	Collector *Collector
	Exporter  *Exporter

	mu     sync.Mutex
	starts map[string]time.Time
}

func NewHook(collector *Collector, exporter *Exporter) *Hook {
	return &Hook{Collector: collector, Exporter: exporter, starts: make(map[string]time.Time)}
}

func key(req *jsonrpc.Request) string {
	if req.ID != nil {
		return fmt.Sprintf("%s:%v", req.Method, req.ID)
	}
	return req.Method
}

func (h *Hook) start(req *jsonrpc.Request) {
	h.mu.Lock()
	h.starts[key(req)] = time.Now()
	h.mu.Unlock()
}

func (h *Hook) finish(req *jsonrpc.Request, success bool, errMsg string) {
	k := key(req)
	h.mu.Lock()
	start, ok := h.starts[k]
	delete(h.starts, k)
	h.mu.Unlock()

	elapsed := time.Duration(0)
	if ok {
		elapsed = time.Since(start)
	}

	rec := RequestRecord{
		StartTime:    start,
		Method:       req.Method,
		Success:      success,
		ResponseTime: elapsed,
		ErrorMessage: errMsg,
	}
	h.Collector.Record(rec)
	if h.Exporter != nil {
		h.Exporter.ObserveRequest(rec)
	}
}

func (h *Hook) BeforeRequest(ctx context.Context, req *jsonrpc.Request) error {
	h.start(req)
	return nil
}

func (h *Hook) AfterResponse(ctx context.Context, req *jsonrpc.Request, resp *jsonrpc.Response) error {
	h.finish(req, true, "")
	return nil
}

func (h *Hook) OnError(ctx context.Context, req *jsonrpc.Request, err error) {
	h.finish(req, false, err.Error())
}

var _ middleware.Hook = (*Hook)(nil)
