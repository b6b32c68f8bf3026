// Package config provides YAML-based configuration loading for the runner.
package config

import (
	"errors"
	"fmt"
)

// MoonWalkConfig contains all tuning for the endless runner.
type MoonWalkConfig struct {
	World     WorldConfig    `yaml:"world"`
	Player    PlayerConfig   `yaml:"player"`
	Scroll    ScrollConfig   `yaml:"scroll"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Overlay   OverlayConfig  `yaml:"overlay"`
	Audio     AudioConfig    `yaml:"audio"`
}

// WorldConfig defines the simulated space. Units are points, y grows upwards.
type WorldConfig struct {
	Width         float64 `yaml:"width"`           // 0 = derive from the screen
	Height        float64 `yaml:"height"`          // 0 = derive from the screen
	GroundLevel   float64 `yaml:"ground_level"`    // y of the ground's top surface
	Gravity       float64 `yaml:"gravity"`         // points/s², negative = down
	MaxFrameDelta float64 `yaml:"max_frame_delta"` // upper bound for a measured dt, seconds
}

// PlayerConfig defines the runner's body and controls.
type PlayerConfig struct {
	StartX            float64 `yaml:"start_x"`
	Radius            float64 `yaml:"radius"`
	Mass              float64 `yaml:"mass"`
	JumpImpulse       float64 `yaml:"jump_impulse"`         // upward impulse per jump
	Spin              float64 `yaml:"spin"`                 // radians subtracted per tick
	DriftGain         float64 `yaml:"drift_gain"`           // x += tilt × gain per tick
	OutOfBoundsMargin float64 `yaml:"out_of_bounds_margin"` // allowed overshoot on each side
}

// ScrollConfig defines the parallax stack.
type ScrollConfig struct {
	BaseSpeed    float64       `yaml:"base_speed"`    // points/s at multiplier 1
	SegmentWidth float64       `yaml:"segment_width"` // 0 = container width
	Layers       []LayerConfig `yaml:"layers"`
}

// LayerConfig defines one background strip.
type LayerConfig struct {
	Name       string  `yaml:"name"`
	Multiplier float64 `yaml:"multiplier"`
	Z          int     `yaml:"z"`
}

// ObstacleConfig defines spawn cadence and obstacle bodies.
type ObstacleConfig struct {
	SpawnDelay    float64 `yaml:"spawn_delay"`    // seconds before the first spawn
	SpawnInterval float64 `yaml:"spawn_interval"` // seconds between spawns
	Lifetime      float64 `yaml:"lifetime"`       // seconds before forced removal
	Friction      float64 `yaml:"friction"`
	SpeedMin      int     `yaml:"speed_min"`   // most negative horizontal speed
	SpeedRange    int     `yaml:"speed_range"` // width of the uniform speed band
}

// OverlayConfig defines the game-over overlay.
type OverlayConfig struct {
	Duration float64 `yaml:"duration"` // seconds
}

// AudioConfig defines sound cue playback.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0.0 to 1.0
}

// ErrInvalidConfig is returned by Validate for unusable values.
var ErrInvalidConfig = errors.New("config: invalid value")

// Validate checks values the simulation cannot run without.
func (c MoonWalkConfig) Validate() error {
	switch {
	case c.World.Width < 0 || c.World.Height < 0:
		return fmt.Errorf("%w: world size must not be negative", ErrInvalidConfig)
	case c.World.MaxFrameDelta <= 0:
		return fmt.Errorf("%w: world.max_frame_delta must be positive", ErrInvalidConfig)
	case c.Player.Radius <= 0 || c.Player.Mass <= 0:
		return fmt.Errorf("%w: player radius and mass must be positive", ErrInvalidConfig)
	case c.Scroll.SegmentWidth < 0:
		return fmt.Errorf("%w: scroll.segment_width must not be negative", ErrInvalidConfig)
	case len(c.Scroll.Layers) == 0:
		return fmt.Errorf("%w: scroll.layers must not be empty", ErrInvalidConfig)
	case c.Obstacles.SpawnInterval <= 0 || c.Obstacles.Lifetime <= 0:
		return fmt.Errorf("%w: obstacle spawn interval and lifetime must be positive", ErrInvalidConfig)
	case c.Obstacles.SpeedRange <= 0:
		return fmt.Errorf("%w: obstacles.speed_range must be positive", ErrInvalidConfig)
	case c.Overlay.Duration < 0:
		return fmt.Errorf("%w: overlay.duration must not be negative", ErrInvalidConfig)
	}
	return nil
}
