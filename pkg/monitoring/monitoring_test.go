package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorAggregatesTotals(t *testing.T) {
	c := NewCollector()
	c.Record(RequestRecord{Method: "tools/call", Success: true, ResponseTime: 10 * time.Millisecond})
	c.Record(RequestRecord{Method: "tools/call", Success: false, ResponseTime: 20 * time.Millisecond})

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.Total)
	assert.Equal(t, int64(1), snap.Successful)
	assert.Equal(t, int64(1), snap.Failed)
	assert.InDelta(t, 15, snap.AvgMs, 0.01)
}

func TestCollectorWindowEvictsOldest(t *testing.T) {
	c := NewCollector()
	c.windowSize = 3
	for i := 1; i <= 5; i++ {
		c.Record(RequestRecord{Method: "m", Success: true, ResponseTime: time.Duration(i) * time.Millisecond})
	}
	assert.Len(t, c.samples, 3)
	assert.Equal(t, 3*time.Millisecond, c.samples[0])
}

func TestCollectorPercentiles(t *testing.T) {
	c := NewCollector()
	for i := 1; i <= 100; i++ {
		c.Record(RequestRecord{Method: "m", Success: true, ResponseTime: time.Duration(i) * time.Millisecond})
	}
	snap := c.Snapshot()
	assert.InDelta(t, 95, snap.P95Ms, 1)
	assert.InDelta(t, 99, snap.P99Ms, 1)
}

func TestHealthAggregateIsWorstOf(t *testing.T) {
	statuses := map[string]Status{"a": Healthy, "b": Degraded, "c": Healthy}
	assert.Equal(t, Degraded, Aggregate(statuses))

	statuses["d"] = Unhealthy
	assert.Equal(t, Unhealthy, Aggregate(statuses))
}

func TestHealthAggregateEmptyIsHealthy(t *testing.T) {
	assert.Equal(t, Healthy, Aggregate(map[string]Status{}))
}

func TestRegistryCheckRunsAllProbes(t *testing.T) {
	r := NewRegistry()
	r.Register("db", func(ctx context.Context) Status { return Healthy })
	r.Register("cache", func(ctx context.Context) Status { return Degraded })

	results := r.Check(context.Background())
	assert.Equal(t, Healthy, results["db"])
	assert.Equal(t, Degraded, results["cache"])
}

func TestHookRecordsSuccessAndFailure(t *testing.T) {
	c := NewCollector()
	reg := prometheus.NewRegistry()
	exporter := NewExporter(reg)
	h := NewHook(c, exporter)

	okReq := &jsonrpc.Request{Method: "ping", ID: float64(1)}
	require.NoError(t, h.BeforeRequest(context.Background(), okReq))
	require.NoError(t, h.AfterResponse(context.Background(), okReq, &jsonrpc.Response{}))

	failReq := &jsonrpc.Request{Method: "tools/call", ID: float64(2)}
	require.NoError(t, h.BeforeRequest(context.Background(), failReq))
	h.OnError(context.Background(), failReq, assertError{})

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.Total)
	assert.Equal(t, int64(1), snap.Successful)
	assert.Equal(t, int64(1), snap.Failed)
}

type assertError struct{}

func (assertError) Error() string { return "boom" }
