// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"

	"github.com/opd-ai/go-spaceflight/pkg/control"
	"github.com/opd-ai/go-spaceflight/pkg/physics"
	"github.com/opd-ai/go-spaceflight/pkg/thruster"
)

// EnvPrefix is prepended to environment overrides, e.g.
// SPACEFLIGHT_PHYSICS_TIMESTEP=0.02
const EnvPrefix = "SPACEFLIGHT"

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Vec3 is a JSON-friendly 3-vector
type Vec3 [3]float64

// Mgl converts v to a math vector
func (v Vec3) Mgl() mgl64.Vec3 {
	return mgl64.Vec3(v)
}

// SimulationConfig contains everything needed to build a simulation
type SimulationConfig struct {
	Physics       PhysicsConfig       `json:"physics" mapstructure:"physics"`
	Stabilization StabilizationConfig `json:"stabilization" mapstructure:"stabilization"`
	Telemetry     TelemetryConfig     `json:"telemetry" mapstructure:"telemetry"`
	Bodies        []BodyConfig        `json:"bodies" mapstructure:"bodies"`
	Ships         []ShipConfig        `json:"ships" mapstructure:"ships"`
}

// PhysicsConfig contains integration settings
type PhysicsConfig struct {
	GravitationalConstant float64 `json:"gravitationalConstant" mapstructure:"gravitationalConstant"`
	Timestep              float64 `json:"timestep" mapstructure:"timestep"`
	MaxTimestep           float64 `json:"maxTimestep" mapstructure:"maxTimestep"`
}

// StabilizationConfig holds the controller thresholds. Angles are in
// degrees and rates in degrees per second.
type StabilizationConfig struct {
	RotationDeadband float64 `json:"rotationDeadband" mapstructure:"rotationDeadband"`
	MovementDeadband float64 `json:"movementDeadband" mapstructure:"movementDeadband"` // m/s
	AimSettleAngle   float64 `json:"aimSettleAngle" mapstructure:"aimSettleAngle"`
	AimSettleRate    float64 `json:"aimSettleRate" mapstructure:"aimSettleRate"`
	AimMinRate       float64 `json:"aimMinRate" mapstructure:"aimMinRate"`
	AimAlignment     float64 `json:"aimAlignment" mapstructure:"aimAlignment"` // cosine
	AimSteerGain     float64 `json:"aimSteerGain" mapstructure:"aimSteerGain"`
}

// Tuning converts the thresholds to the controller's radian units
func (s StabilizationConfig) Tuning() control.Tuning {
	return control.Tuning{
		RotationDeadband: mgl64.DegToRad(s.RotationDeadband),
		MovementDeadband: s.MovementDeadband,
		AimSettleAngle:   mgl64.DegToRad(s.AimSettleAngle),
		AimSettleRate:    mgl64.DegToRad(s.AimSettleRate),
		AimMinRate:       mgl64.DegToRad(s.AimMinRate),
		AimAlignment:     s.AimAlignment,
		AimSteerGain:     s.AimSteerGain,
	}
}

// TelemetryConfig contains readout settings
type TelemetryConfig struct {
	StandardGravity float64 `json:"standardGravity" mapstructure:"standardGravity"`
}

// BodyConfig describes a gravity source
type BodyConfig struct {
	Name     string  `json:"name" mapstructure:"name"`
	Mass     float64 `json:"mass" mapstructure:"mass"`
	Radius   float64 `json:"radius" mapstructure:"radius"`
	Position Vec3    `json:"position" mapstructure:"position"`
}

// ShipConfig describes a ship. An empty thruster list selects the stock
// fifteen-thruster layout.
type ShipConfig struct {
	Name          string           `json:"name" mapstructure:"name"`
	Role          string           `json:"role" mapstructure:"role"`
	Mass          float64          `json:"mass" mapstructure:"mass"`
	Hull          Vec3             `json:"hull" mapstructure:"hull"`
	Position      Vec3             `json:"position" mapstructure:"position"`
	Orientation   Vec3             `json:"orientation" mapstructure:"orientation"` // x, y, z degrees
	PilotPosition Vec3             `json:"pilotPosition" mapstructure:"pilotPosition"`
	Thrusters     []ThrusterConfig `json:"thrusters,omitempty" mapstructure:"thrusters"`
}

// ThrusterConfig describes one thruster
type ThrusterConfig struct {
	Position     Vec3    `json:"position" mapstructure:"position"`
	Direction    Vec3    `json:"direction" mapstructure:"direction"`
	Force        float64 `json:"force" mapstructure:"force"`
	Kind         string  `json:"kind" mapstructure:"kind"`
	ExhaustSpeed float64 `json:"exhaustSpeed" mapstructure:"exhaustSpeed"`
}

// Pose returns the ship's starting pose
func (s ShipConfig) Pose() physics.Pose {
	pose := physics.NewPose(s.Position.Mgl())
	o := s.Orientation
	pose.Orientation = physics.EulerXYZ(mgl64.Vec3{
		mgl64.DegToRad(o[0]),
		mgl64.DegToRad(o[1]),
		mgl64.DegToRad(o[2]),
	})
	return pose
}

// Layout builds the ship's thruster layout
func (s ShipConfig) Layout() (thruster.Layout, error) {
	if len(s.Thrusters) == 0 {
		layout := thruster.DefaultLayout()
		layout.Hull = s.Hull.Mgl()
		return layout, nil
	}

	layout := thruster.Layout{
		Thrusters: make([]thruster.Thruster, 0, len(s.Thrusters)),
		Hull:      s.Hull.Mgl(),
	}
	for i, tc := range s.Thrusters {
		kind, err := thruster.ParseKind(tc.Kind)
		if err != nil {
			return thruster.Layout{}, fmt.Errorf("thruster %d: %w", i, err)
		}
		layout.Thrusters = append(layout.Thrusters, thruster.Thruster{
			Position:     tc.Position.Mgl(),
			Direction:    physics.NormalizeOrZero(tc.Direction.Mgl()),
			Force:        tc.Force,
			Kind:         kind,
			ExhaustSpeed: tc.ExhaustSpeed,
		})
	}
	return layout, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("physics.gravitationalConstant", d.Physics.GravitationalConstant)
	v.SetDefault("physics.timestep", d.Physics.Timestep)
	v.SetDefault("physics.maxTimestep", d.Physics.MaxTimestep)

	v.SetDefault("stabilization.rotationDeadband", d.Stabilization.RotationDeadband)
	v.SetDefault("stabilization.movementDeadband", d.Stabilization.MovementDeadband)
	v.SetDefault("stabilization.aimSettleAngle", d.Stabilization.AimSettleAngle)
	v.SetDefault("stabilization.aimSettleRate", d.Stabilization.AimSettleRate)
	v.SetDefault("stabilization.aimMinRate", d.Stabilization.AimMinRate)
	v.SetDefault("stabilization.aimAlignment", d.Stabilization.AimAlignment)
	v.SetDefault("stabilization.aimSteerGain", d.Stabilization.AimSteerGain)

	v.SetDefault("telemetry.standardGravity", d.Telemetry.StandardGravity)
}

// Load reads a configuration file over the defaults. An empty path loads
// defaults only. Environment variables prefixed with SPACEFLIGHT_ override
// scalar settings; nested keys use underscores
// (SPACEFLIGHT_STABILIZATION_AIMSTEERGAIN).
func Load(path string) (*SimulationConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg SimulationConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if !v.IsSet("ships") {
		cfg.Ships = DefaultConfig().Ships
	}
	for i := range cfg.Ships {
		cfg.Ships[i].applyDefaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *ShipConfig) applyDefaults() {
	if s.Hull == (Vec3{}) {
		s.Hull = Vec3(thruster.DefaultHull)
	}
	if s.PilotPosition == (Vec3{}) {
		s.PilotPosition = Vec3{0, 0, 1}
	}
	if s.Role == "" {
		s.Role = "ai"
	}
}

// Save writes a configuration to a file as indented JSON
func Save(cfg *SimulationConfig, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the stock scene: a player ship and an AI ship
// with the fifteen-thruster layout and no gravity sources.
func DefaultConfig() *SimulationConfig {
	return &SimulationConfig{
		Physics: PhysicsConfig{
			GravitationalConstant: physics.GravitationalConstant,
			Timestep:              1.0 / 60,
			MaxTimestep:           0,
		},
		Stabilization: StabilizationConfig{
			RotationDeadband: 1,
			MovementDeadband: 0.3,
			AimSettleAngle:   3,
			AimSettleRate:    3,
			AimMinRate:       15,
			AimAlignment:     0.97,
			AimSteerGain:     1,
		},
		Telemetry: TelemetryConfig{
			StandardGravity: 9.81,
		},
		Bodies: []BodyConfig{},
		Ships: []ShipConfig{
			{
				Name:          "player",
				Role:          "player",
				Mass:          1000,
				Hull:          Vec3(thruster.DefaultHull),
				Position:      Vec3{0, 10, 0},
				PilotPosition: Vec3{0, 0, 1},
			},
			{
				Name:          "ai",
				Role:          "ai",
				Mass:          1000,
				Hull:          Vec3(thruster.DefaultHull),
				Position:      Vec3{20, 10, 20},
				PilotPosition: Vec3{0, 0, 1},
			},
		},
	}
}
