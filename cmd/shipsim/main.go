// cmd/shipsim/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-spaceflight/pkg/config"
	"github.com/opd-ai/go-spaceflight/pkg/control"
	"github.com/opd-ai/go-spaceflight/pkg/engine"
	"github.com/opd-ai/go-spaceflight/pkg/event"
	"github.com/opd-ai/go-spaceflight/pkg/health"
	"github.com/opd-ai/go-spaceflight/pkg/logging"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "", "Path to configuration file (defaults only when empty)")
	createDefault := flag.Bool("default", false, "Write the default configuration to -config and exit")
	ticks := flag.Int("ticks", 600, "Number of ticks to run (0 runs until interrupted)")
	dt := flag.Float64("dt", 0, "Timestep in seconds (0 uses the configured timestep)")
	forward := flag.Bool("forward", false, "Hold forward thrust on the player ship")
	damp := flag.Bool("damp", false, "Enable full rotation and movement stabilization on the player ship")
	realTime := flag.Bool("realtime", false, "Pace ticks to wall-clock time")
	report := flag.Duration("report", time.Second, "Interval between telemetry log entries")
	healthAddr := flag.String("health", "", "Serve /health and /ready on this address (disabled when empty)")
	flag.Parse()

	if *createDefault {
		if *configPath == "" {
			logger.Error(ctx, "No configuration path given", nil, "flag", "-config")
			os.Exit(1)
		}
		if err := config.Save(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}
	if *dt <= 0 {
		*dt = cfg.Physics.Timestep
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	if *realTime {
		opts = append(opts, engine.WithRealTime())
	}
	sim, err := engine.NewSimulation(cfg, opts...)
	if err != nil {
		logger.Error(ctx, "Failed to create simulation", err)
		os.Exit(1)
	}
	defer sim.Close()

	sim.EventBus.Subscribe(event.ThrusterActivated, func(e event.Event) {
		te := e.(*event.ThrusterEvent)
		logger.Debug(ctx, "Thruster on", "ship_id", te.ShipID, "index", te.Index, "kind", string(te.Kind))
	})

	if err := setupPlayer(sim, *forward, *damp, *dt); err != nil {
		logger.Warn(ctx, "Player controls not applied", "error", err.Error())
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var healthServer *http.Server
	if *healthAddr != "" {
		checker := health.NewChecker(5 * time.Second)
		stall := time.Duration(0)
		if *realTime {
			stall = time.Duration(10 * *dt * float64(time.Second))
		}
		checker.AddCheck(health.NewSimulationCheck(sim.Running, sim.LastTick, stall))
		checker.AddCheck(health.NewMemoryCheck(500, nil))

		healthServer = &http.Server{
			Addr:         *healthAddr,
			Handler:      checker.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info(ctx, "Starting health check server", "address", *healthAddr)
			if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "Health check server failed", err)
			}
		}()
	}

	type result struct {
		ticks int
		err   error
	}
	done := make(chan result, 1)
	go func() {
		n, err := sim.Run(runCtx, *ticks, *dt)
		done <- result{n, err}
	}()

	reportTicker := time.NewTicker(*report)
	defer reportTicker.Stop()

	exitCode := 0
	for running := true; running; {
		select {
		case <-reportTicker.C:
			logTelemetry(ctx, logger, sim)
		case r := <-done:
			running = false
			logTelemetry(ctx, logger, sim)
			if r.err != nil && !errors.Is(r.err, context.Canceled) {
				logger.Error(ctx, "Simulation failed", r.err, "ticks", r.ticks)
				exitCode = 1
			}
		}
	}

	if healthServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Health check server shutdown failed", err)
		}
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// setupPlayer holds the requested controls on the player ship. Modes only
// change on toggle presses, so each press is stepped through one tick
// before the run starts.
func setupPlayer(sim *engine.Simulation, forward, damp bool, dt float64) error {
	if !forward && !damp {
		return nil
	}
	id, err := sim.PlayerShip()
	if err != nil {
		return err
	}

	var held control.ActionSet
	if forward {
		held = held.With(control.MoveForward)
	}

	press := func(a control.Action) error {
		if err := sim.SetInput(id, held.With(a)); err != nil {
			return err
		}
		sim.Step(dt)
		if err := sim.SetInput(id, held); err != nil {
			return err
		}
		sim.Step(dt)
		return nil
	}

	if damp {
		// off -> aim assist -> full damping
		for _, a := range []control.Action{control.ToggleRotationMode, control.ToggleRotationMode, control.ToggleMovementMode} {
			if err := press(a); err != nil {
				return err
			}
		}
	}
	return sim.SetInput(id, held)
}

func logTelemetry(ctx context.Context, logger *logging.Logger, sim *engine.Simulation) {
	for _, state := range sim.Snapshot() {
		snap, err := sim.Telemetry(state.ID)
		if err != nil {
			continue
		}
		logger.Info(ctx, "Telemetry",
			"ship", state.Name,
			"tick", sim.Ticks(),
			"position", state.Position,
			"velocity", state.Velocity,
			"speed", snap.Speed,
			"angular_speed_deg", snap.AngularSpeedDeg,
			"load_factor", snap.LoadFactor,
			"rotation_mode", state.Rotation.String(),
			"movement_mode", state.Movement.String(),
		)
	}
}
