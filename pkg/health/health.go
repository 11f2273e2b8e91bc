// Package health exposes liveness and readiness checks for a running
// simulation over HTTP.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"
)

// Check is one readiness condition
type Check interface {
	Name() string
	// Check returns an error when the component is unhealthy
	Check(ctx context.Context) error
}

// Status is the aggregated result of all checks
type Status struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentStatus `json:"checks"`
}

// ComponentStatus is the result of a single check
type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Healthy reports whether every check passed
func (s Status) Healthy() bool {
	return s.Status == "healthy"
}

// Checker runs the registered checks
type Checker struct {
	checks  map[string]Check
	timeout time.Duration
	metrics *Metrics
	mu      sync.RWMutex
}

// NewChecker creates a checker whose readiness check gives up after timeout
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		checks:  make(map[string]Check),
		timeout: timeout,
		metrics: NewMetrics(),
	}
}

// Metrics returns the collectors updated by Run
func (c *Checker) Metrics() *Metrics {
	return c.metrics
}

// AddCheck registers check, replacing any check with the same name
func (c *Checker) AddCheck(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[check.Name()] = check
}

// RemoveCheck drops the check called name
func (c *Checker) RemoveCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
	c.metrics.forget(name)
}

// Run executes every check in name order
func (c *Checker) Run(ctx context.Context) Status {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	checks := make(map[string]Check, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()
	sort.Strings(names)

	status := Status{
		Status: "healthy",
		Checks: make(map[string]ComponentStatus, len(names)),
	}
	for _, name := range names {
		start := time.Now()
		err := checks[name].Check(ctx)
		c.metrics.observe(name, err == nil, time.Since(start))
		if err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentStatus{Status: "unhealthy", Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentStatus{Status: "healthy"}
	}
	return status
}

// LivenessHandler answers 200 while the process can serve requests
func (c *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler runs every check and answers 200 when all pass or 503
// otherwise, with the per-check results as the body.
func (c *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	status := c.Run(ctx)

	w.Header().Set("Content-Type", "application/json")
	if status.Healthy() {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}

// Handler serves /health (liveness), /ready (readiness) and /metrics
func (c *Checker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", c.LivenessHandler)
	mux.HandleFunc("/ready", c.ReadinessHandler)
	mux.Handle("/metrics", c.metrics.Handler())
	return mux
}

// SimulationCheck fails when the simulation is not running or has not
// ticked within MaxStall.
type SimulationCheck struct {
	Running  func() bool
	LastTick func() time.Time
	MaxStall time.Duration
	now      func() time.Time
}

// NewSimulationCheck creates a check over the given simulation accessors
func NewSimulationCheck(running func() bool, lastTick func() time.Time, maxStall time.Duration) *SimulationCheck {
	return &SimulationCheck{
		Running:  running,
		LastTick: lastTick,
		MaxStall: maxStall,
		now:      time.Now,
	}
}

// Name returns "simulation"
func (s *SimulationCheck) Name() string {
	return "simulation"
}

// Check implements Check
func (s *SimulationCheck) Check(ctx context.Context) error {
	if !s.Running() {
		return fmt.Errorf("simulation is not running")
	}
	if s.MaxStall <= 0 {
		return nil
	}
	last := s.LastTick()
	if last.IsZero() {
		return fmt.Errorf("simulation has not ticked yet")
	}
	if stall := s.now().Sub(last); stall > s.MaxStall {
		return fmt.Errorf("no tick for %v (limit %v)", stall.Round(time.Millisecond), s.MaxStall)
	}
	return nil
}

// MemoryCheck fails when heap allocation exceeds a limit
type MemoryCheck struct {
	maxMB int64
	usage func() int64
}

// NewMemoryCheck creates a check limiting heap allocation to maxMB. A nil
// usage reads runtime.MemStats.
func NewMemoryCheck(maxMB int64, usage func() int64) *MemoryCheck {
	if usage == nil {
		usage = heapMB
	}
	return &MemoryCheck{maxMB: maxMB, usage: usage}
}

func heapMB() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}

// Name returns "memory"
func (m *MemoryCheck) Name() string {
	return "memory"
}

// Check implements Check
func (m *MemoryCheck) Check(ctx context.Context) error {
	if current := m.usage(); current > m.maxMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", current, m.maxMB)
	}
	return nil
}
