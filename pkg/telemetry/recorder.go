package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/opd-ai/go-spaceflight/pkg/telemetry"

// Recorder keeps the latest snapshot per ship and reports it through
// observable gauges.
type Recorder struct {
	speed        metric.Float64ObservableGauge
	angularSpeed metric.Float64ObservableGauge
	loadFactor   metric.Float64ObservableGauge
	ticks        metric.Int64Counter

	mu     sync.RWMutex
	latest map[string]Snapshot
}

// NewRecorder creates a recorder on meter. A nil meter uses the global
// provider, which is a no-op unless one has been installed.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	r := &Recorder{latest: make(map[string]Snapshot)}

	var err error
	r.speed, err = meter.Float64ObservableGauge(
		"spaceflight.ship.speed",
		metric.WithDescription("Linear speed of the ship"),
		metric.WithUnit("m/s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speed gauge: %w", err)
	}

	r.angularSpeed, err = meter.Float64ObservableGauge(
		"spaceflight.ship.angular_speed",
		metric.WithDescription("Angular speed of the ship"),
		metric.WithUnit("deg/s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating angular speed gauge: %w", err)
	}

	r.loadFactor, err = meter.Float64ObservableGauge(
		"spaceflight.ship.load_factor",
		metric.WithDescription("Load felt by the pilot in standard gravities"),
		metric.WithUnit("g"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating load factor gauge: %w", err)
	}

	_, err = meter.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			r.mu.RLock()
			defer r.mu.RUnlock()
			for ship, s := range r.latest {
				attrs := metric.WithAttributes(attribute.String("ship", ship))
				o.ObserveFloat64(r.speed, s.Speed, attrs)
				o.ObserveFloat64(r.angularSpeed, s.AngularSpeedDeg, attrs)
				o.ObserveFloat64(r.loadFactor, s.LoadFactor, attrs)
			}
			return nil
		},
		r.speed, r.angularSpeed, r.loadFactor,
	)
	if err != nil {
		return nil, fmt.Errorf("registering telemetry callback: %w", err)
	}

	r.ticks, err = meter.Int64Counter(
		"spaceflight.simulation.ticks",
		metric.WithDescription("Total simulation ticks executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}

	return r, nil
}

// Record stores the snapshot for ship
func (r *Recorder) Record(ship string, s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest[ship] = s
}

// Forget drops a ship from the gauges
func (r *Recorder) Forget(ship string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.latest, ship)
}

// Latest returns the most recent snapshot for ship
func (r *Recorder) Latest(ship string) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.latest[ship]
	return s, ok
}

// Tick counts one executed simulation tick
func (r *Recorder) Tick(ctx context.Context) {
	r.ticks.Add(ctx, 1)
}
