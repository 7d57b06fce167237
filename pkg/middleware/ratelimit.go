package middleware

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// RateLimitHook admits a request iff fewer than Max requests have been seen
// within the trailing Window (spec §4.7.2). Timestamps are tracked in a
// FIFO deque per key and lazily expired on each check; KeyFunc defaults to
// a single global bucket when nil.
type RateLimitHook struct {
	BaseHook

	Max     int
	Window  time.Duration
	KeyFunc func(req *jsonrpc.Request) string

	mu      sync.Mutex
	buckets map[string]*list.List
}

func NewRateLimitHook(max int, window time.Duration) *RateLimitHook {
	return &RateLimitHook{
		Max:     max,
		Window:  window,
		buckets: make(map[string]*list.List),
	}
}

func (h *RateLimitHook) key(req *jsonrpc.Request) string {
	if h.KeyFunc != nil {
		return h.KeyFunc(req)
	}
	return "global"
}

func (h *RateLimitHook) BeforeRequest(ctx context.Context, req *jsonrpc.Request) error {
	key := h.key(req)
	now := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()

	bucket, ok := h.buckets[key]
	if !ok {
		bucket = list.New()
		h.buckets[key] = bucket
	}

	cutoff := now.Add(-h.Window)
	for bucket.Len() > 0 {
		front := bucket.Front()
		if front.Value.(time.Time).Before(cutoff) {
			bucket.Remove(front)
			continue
		}
		break
	}

	if bucket.Len() >= h.Max {
		return mcperrors.New(mcperrors.KindRateLimited, "rate limit exceeded")
	}

	bucket.PushBack(now)
	return nil
}

var _ Hook = (*RateLimitHook)(nil)
