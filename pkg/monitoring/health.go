package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/richard-senior/mcpsession/internal/logger"
)

// Status is a health-check result, ordered Healthy < Degraded < Unhealthy
// < Unknown (spec §4.8): the aggregate over several probes is the worst
// (highest-ordinal) status observed.
type Status int

const (
	Healthy Status = iota
	Degraded
	Unhealthy
	Unknown
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Degraded:
		return "degraded"
	case Unhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Probe is a named health check.
type Probe func(ctx context.Context) Status

// Registry holds named probes and computes the worst-of aggregate.
type Registry struct {
	mu     sync.RWMutex
	probes map[string]Probe
}

func NewRegistry() *Registry {
	return &Registry{probes: make(map[string]Probe)}
}

// Register adds or replaces a named probe.
func (r *Registry) Register(name string, probe Probe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probes[name] = probe
}

// Check runs every registered probe and returns each one's status.
func (r *Registry) Check(ctx context.Context) map[string]Status {
	r.mu.RLock()
	probes := make(map[string]Probe, len(r.probes))
	for name, p := range r.probes {
		probes[name] = p
	}
	r.mu.RUnlock()

	results := make(map[string]Status, len(probes))
	for name, probe := range probes {
		results[name] = probe(ctx)
	}
	return results
}

// Aggregate reduces a set of probe results to the single worst status;
// an empty set is Healthy.
func Aggregate(statuses map[string]Status) Status {
	worst := Healthy
	for _, s := range statuses {
		if s > worst {
			worst = s
		}
	}
	return worst
}

// RunPeriodic runs Check at the given interval until ctx is cancelled,
// logging each probe result at a level matched to its severity.
func (r *Registry) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			results := r.Check(ctx)
			for name, status := range results {
				logLine(name, status)
			}
		}
	}
}

func logLine(name string, status Status) {
	switch status {
	case Healthy:
		logger.Info("health check %s: %s", name, status)
	case Degraded:
		logger.Warn("health check %s: %s", name, status)
	default:
		logger.Error("health check %s: %s", name, status)
	}
}
