package upstream

import (
	"sync"
	"time"
)

// HealthState describes the observed health of the upstream endpoint.
type HealthState int

const (
	StateHealthy   HealthState = iota // recent attempts succeeding
	StateUnhealthy                    // consecutive failures at or past threshold
	StateRecovering                   // probe window open after failures
)

func (s HealthState) String() string {
	switch s {
	case StateHealthy:
		return "healthy"
	case StateUnhealthy:
		return "unhealthy"
	case StateRecovering:
		return "recovering"
	default:
		return "unknown"
	}
}

// HealthTracker records the outcome of every upstream attempt and
// derives a circuit-breaker style state from them. It is purely
// observational — every validated, uncached request still attempts the
// upstream exactly once — and feeds the health endpoint and metrics.
type HealthTracker struct {
	mu sync.Mutex

	state       HealthState
	failures    int
	lastFailure time.Time
	unhealthyAt time.Time

	failureThreshold int
	recoveryInterval time.Duration
}

func NewHealthTracker(failureThreshold int, recoveryInterval time.Duration) *HealthTracker {
	return &HealthTracker{
		state:            StateHealthy,
		failureThreshold: failureThreshold,
		recoveryInterval: recoveryInterval,
	}
}

// State returns the current health state, transitioning
// unhealthy→recovering once the recovery interval has elapsed.
func (h *HealthTracker) State() HealthState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentState()
}

// currentState must be called with mu held.
func (h *HealthTracker) currentState() HealthState {
	if h.state == StateUnhealthy && time.Since(h.unhealthyAt) >= h.recoveryInterval {
		h.state = StateRecovering
	}
	return h.state
}

// RecordSuccess marks an upstream attempt that returned a usable answer.
func (h *HealthTracker) RecordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentState()
	h.state = StateHealthy
	h.failures = 0
}

// RecordFailure marks an upstream attempt that ended in any non-success
// outcome.
func (h *HealthTracker) RecordFailure() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.failures++
	h.lastFailure = time.Now()

	switch h.currentState() {
	case StateHealthy:
		if h.failures >= h.failureThreshold {
			h.state = StateUnhealthy
			h.unhealthyAt = time.Now()
		}
	case StateRecovering:
		h.state = StateUnhealthy
		h.unhealthyAt = time.Now()
	}
}

// ConsecutiveFailures returns the current failure streak.
func (h *HealthTracker) ConsecutiveFailures() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failures
}
