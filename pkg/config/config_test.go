package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-spaceflight/pkg/control"
	"github.com/opd-ai/go-spaceflight/pkg/thruster"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() should be valid: %v", err)
	}
	if len(cfg.Ships) != 2 {
		t.Fatalf("expected 2 ships, got %d", len(cfg.Ships))
	}
	if cfg.Ships[0].Role != "player" || cfg.Ships[0].Position != (Vec3{0, 10, 0}) {
		t.Errorf("unexpected player ship %+v", cfg.Ships[0])
	}
	if cfg.Ships[1].Role != "ai" || cfg.Ships[1].Position != (Vec3{20, 10, 20}) {
		t.Errorf("unexpected ai ship %+v", cfg.Ships[1])
	}
	if len(cfg.Bodies) != 0 {
		t.Errorf("expected no gravity sources, got %d", len(cfg.Bodies))
	}
}

func TestStabilizationConfig_Tuning(t *testing.T) {
	got := DefaultConfig().Stabilization.Tuning()
	want := control.DefaultTuning()

	pairs := []struct {
		name      string
		got, want float64
	}{
		{"rotation_deadband", got.RotationDeadband, want.RotationDeadband},
		{"movement_deadband", got.MovementDeadband, want.MovementDeadband},
		{"aim_settle_angle", got.AimSettleAngle, want.AimSettleAngle},
		{"aim_settle_rate", got.AimSettleRate, want.AimSettleRate},
		{"aim_min_rate", got.AimMinRate, want.AimMinRate},
		{"aim_alignment", got.AimAlignment, want.AimAlignment},
		{"aim_steer_gain", got.AimSteerGain, want.AimSteerGain},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			if math.Abs(p.got-p.want) > 1e-12 {
				t.Errorf("got %v, want %v", p.got, p.want)
			}
		})
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Physics.Timestep != 1.0/60 || cfg.Physics.MaxTimestep != 0 {
		t.Errorf("unexpected physics defaults %+v", cfg.Physics)
	}
	if len(cfg.Ships) != 2 {
		t.Errorf("expected default ships, got %d", len(cfg.Ships))
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := writeFile(t, `{
		"physics": {"timestep": 0.02},
		"bodies": [{"name": "sun", "mass": 2e30, "radius": 7e8, "position": [0, -1e11, 0]}],
		"ships": [{"name": "solo", "role": "player", "mass": 500, "orientation": [0, 90, 0]}]
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Physics.Timestep != 0.02 {
		t.Errorf("Timestep = %v, want 0.02", cfg.Physics.Timestep)
	}
	if cfg.Physics.MaxTimestep != 0 {
		t.Errorf("MaxTimestep = %v, want default 0 (unclamped)", cfg.Physics.MaxTimestep)
	}
	if cfg.Stabilization.AimMinRate != 15 {
		t.Errorf("AimMinRate = %v, want default 15", cfg.Stabilization.AimMinRate)
	}

	if len(cfg.Bodies) != 1 || cfg.Bodies[0].Position != (Vec3{0, -1e11, 0}) {
		t.Errorf("unexpected bodies %+v", cfg.Bodies)
	}

	if len(cfg.Ships) != 1 {
		t.Fatalf("expected 1 ship, got %d", len(cfg.Ships))
	}
	ship := cfg.Ships[0]
	if ship.Hull != Vec3(thruster.DefaultHull) || ship.PilotPosition != (Vec3{0, 0, 1}) {
		t.Errorf("expected hull and pilot defaults, got %+v", ship)
	}

	forward := ship.Pose().Forward()
	if math.Abs(forward[0]+1) > 1e-9 || math.Abs(forward[2]) > 1e-9 {
		t.Errorf("ship yawed 90° should face -X, got %v", forward)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("SPACEFLIGHT_STABILIZATION_AIMSTEERGAIN", "0.5")
	t.Setenv("SPACEFLIGHT_PHYSICS_MAXTIMESTEP", "0.1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Stabilization.AimSteerGain != 0.5 {
		t.Errorf("AimSteerGain = %v, want 0.5", cfg.Stabilization.AimSteerGain)
	}
	if cfg.Physics.MaxTimestep != 0.1 {
		t.Errorf("MaxTimestep = %v, want 0.1", cfg.Physics.MaxTimestep)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"malformed_json", `{"physics": `, false},
		{"negative_mass", `{"ships": [{"name": "x", "mass": -1}]}`, true},
		{"unknown_role", `{"ships": [{"name": "x", "role": "pirate", "mass": 1}]}`, true},
		{"two_players", `{"ships": [{"name": "a", "role": "player", "mass": 1}, {"name": "b", "role": "player", "mass": 1}]}`, true},
		{"timestep_over_max", `{"physics": {"timestep": 1.0, "maxTimestep": 0.25}}`, true},
		{"negative_max_timestep", `{"physics": {"maxTimestep": -1}}`, true},
		{"zero_thruster_direction", `{"ships": [{"name": "x", "mass": 1, "thrusters": [{"kind": "main", "force": 1, "direction": [0, 0, 0]}]}]}`, true},
		{"bad_steer_gain", `{"stabilization": {"aimSteerGain": 2}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if errors.Is(err, ErrInvalidConfig) != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = %v, want %v (err = %v)", !tt.invalid, tt.invalid, err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load() of a missing file should fail")
	}

	// without a maxTimestep any positive timestep is accepted
	if _, err := Load(writeFile(t, `{"physics": {"timestep": 1.0}}`)); err != nil {
		t.Errorf("Load() of an unclamped 1 s timestep error = %v", err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stabilization.AimSteerGain = 0.75
	cfg.Bodies = append(cfg.Bodies, BodyConfig{Name: "moon", Mass: 7.3e22, Radius: 1.7e6, Position: Vec3{0, 0, 3.8e8}})

	path := filepath.Join(t.TempDir(), "saved.json")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Stabilization.AimSteerGain != 0.75 {
		t.Errorf("AimSteerGain = %v, want 0.75", loaded.Stabilization.AimSteerGain)
	}
	if len(loaded.Bodies) != 1 || loaded.Bodies[0].Name != "moon" {
		t.Errorf("unexpected bodies %+v", loaded.Bodies)
	}
	if len(loaded.Ships) != 2 || loaded.Ships[1].Position != (Vec3{20, 10, 20}) {
		t.Errorf("unexpected ships %+v", loaded.Ships)
	}
}

func TestShipConfig_Layout(t *testing.T) {
	t.Run("default_layout", func(t *testing.T) {
		layout, err := ShipConfig{Hull: Vec3{2, 2, 4}}.Layout()
		if err != nil {
			t.Fatalf("Layout() error = %v", err)
		}
		if len(layout.Thrusters) != 15 || layout.Hull != (mgl64.Vec3{2, 2, 4}) {
			t.Errorf("unexpected layout: %d thrusters, hull %v", len(layout.Thrusters), layout.Hull)
		}
	})

	t.Run("custom_layout", func(t *testing.T) {
		sc := ShipConfig{
			Hull: Vec3{1, 1, 1},
			Thrusters: []ThrusterConfig{
				{Direction: Vec3{0, 0, 2}, Force: 10000, Kind: "main", ExhaustSpeed: 15},
			},
		}
		layout, err := sc.Layout()
		if err != nil {
			t.Fatalf("Layout() error = %v", err)
		}
		if len(layout.Thrusters) != 1 {
			t.Fatalf("expected 1 thruster, got %d", len(layout.Thrusters))
		}
		if layout.Thrusters[0].Direction != (mgl64.Vec3{0, 0, 1}) {
			t.Errorf("direction should be normalized, got %v", layout.Thrusters[0].Direction)
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		_, err := ShipConfig{Thrusters: []ThrusterConfig{{Kind: "warp"}}}.Layout()
		if err == nil {
			t.Error("expected error for unknown thruster kind")
		}
	})
}
