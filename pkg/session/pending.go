package session

import (
	"sync"
	"time"

	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// DefaultTimeout is the pending-request timeout used when the caller does
// not specify one (spec §4.5 step 2).
const DefaultTimeout = 30 * time.Second

type pendingEntry struct {
	sink      chan *jsonrpc.Response
	createdAt time.Time
	timeout   time.Duration
}

// pendingTable is the outbound-request correlation table: one entry per
// in-flight request id, resolved exactly once by a matching response, the
// timeout sweeper, or shutdown cancellation (spec invariant 2).
type pendingTable struct {
	mu      sync.Mutex
	entries map[string]*pendingEntry
}

func newPendingTable() *pendingTable {
	return &pendingTable{entries: make(map[string]*pendingEntry)}
}

// insert registers id and returns the buffered channel its eventual
// response (or timeout/cancel error) arrives on.
func (t *pendingTable) insert(id string, timeout time.Duration) chan *jsonrpc.Response {
	sink := make(chan *jsonrpc.Response, 1)
	t.mu.Lock()
	t.entries[id] = &pendingEntry{sink: sink, createdAt: time.Now(), timeout: timeout}
	t.mu.Unlock()
	return sink
}

// remove deletes id without resolving it; used when the outbound send
// itself fails before a sink could ever be satisfied.
func (t *pendingTable) remove(id string) {
	t.mu.Lock()
	delete(t.entries, id)
	t.mu.Unlock()
}

// resolve delivers resp to id's sink and removes the entry. Returns false
// if id has no pending entry (spec: emit "unknown response id").
func (t *pendingTable) resolve(id string, resp *jsonrpc.Response) bool {
	t.mu.Lock()
	entry, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	entry.sink <- resp
	return true
}

// sweepTimeouts evicts every entry whose deadline has passed and delivers
// a timeout error response to each.
func (t *pendingTable) sweepTimeouts() {
	now := time.Now()
	t.mu.Lock()
	var expired []*pendingEntry
	for id, entry := range t.entries {
		if now.After(entry.createdAt.Add(entry.timeout)) {
			expired = append(expired, entry)
			delete(t.entries, id)
		}
	}
	t.mu.Unlock()

	for _, entry := range expired {
		entry.sink <- timeoutResponse()
	}
}

// cancelAll resolves every remaining entry with a cancelled error; used on
// session shutdown.
func (t *pendingTable) cancelAll() {
	t.mu.Lock()
	entries := t.entries
	t.entries = make(map[string]*pendingEntry)
	t.mu.Unlock()

	for _, entry := range entries {
		entry.sink <- cancelledResponse()
	}
}

func (t *pendingTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func timeoutResponse() *jsonrpc.Response {
	err := mcperrors.New(mcperrors.KindTimeout, "request timed out")
	return jsonrpc.NewErrorResponse(err.Code(), err.Message, nil, nil)
}

func cancelledResponse() *jsonrpc.Response {
	err := mcperrors.New(mcperrors.KindCancelled, "session shutting down")
	return jsonrpc.NewErrorResponse(err.Code(), err.Message, nil, nil)
}
