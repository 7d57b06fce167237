package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/internal/logger"
)

// LoggingHook emits a structured record for each phase of a request and
// measures elapsed time from BeforeRequest to AfterResponse using a keyed
// start-time map (spec §4.7.1). The key is the request id when present,
// else the method name — notifications have no id and share a key per
// method, which is good enough for the timing this hook reports.
type LoggingHook struct {
	BaseHook

	mu     sync.Mutex
	starts map[string]time.Time
}

func NewLoggingHook() *LoggingHook {
	return &LoggingHook{starts: make(map[string]time.Time)}
}

func timingKey(req *jsonrpc.Request) string {
	if req.ID != nil {
		return fmt.Sprintf("%v", req.ID)
	}
	return req.Method
}

func (h *LoggingHook) BeforeRequest(ctx context.Context, req *jsonrpc.Request) error {
	key := timingKey(req)
	h.mu.Lock()
	h.starts[key] = time.Now()
	h.mu.Unlock()
	logger.Info("request start method=%s id=%v", req.Method, req.ID)
	return nil
}

func (h *LoggingHook) AfterResponse(ctx context.Context, req *jsonrpc.Request, resp *jsonrpc.Response) error {
	key := timingKey(req)
	h.mu.Lock()
	start, ok := h.starts[key]
	delete(h.starts, key)
	h.mu.Unlock()

	elapsed := time.Duration(0)
	if ok {
		elapsed = time.Since(start)
	}
	logger.Info("request done method=%s id=%v elapsed=%s", req.Method, req.ID, elapsed)
	return nil
}

func (h *LoggingHook) OnError(ctx context.Context, req *jsonrpc.Request, err error) {
	key := timingKey(req)
	h.mu.Lock()
	delete(h.starts, key)
	h.mu.Unlock()
	logger.Warn("request error method=%s id=%v err=%v", req.Method, req.ID, err)
}

var _ Hook = (*LoggingHook)(nil)
