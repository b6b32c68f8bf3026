package config

import (
	_ "embed"
)

//go:embed defaults/moonwalk.yaml
var defaultMoonWalkYAML []byte

// Names of the parallax layers the game expects.
const (
	LayerGround         = "ground"
	LayerMountainsBack  = "mountains_back"
	LayerMountainsFront = "mountains_front"
)

// DefaultMoonWalkConfig returns the hard-coded default configuration.
// It mirrors defaults/moonwalk.yaml and is used when the embedded YAML cannot be parsed.
func DefaultMoonWalkConfig() MoonWalkConfig {
	return MoonWalkConfig{
		World: WorldConfig{
			Width:         667,
			Height:        375,
			GroundLevel:   60,
			Gravity:       -1470,
			MaxFrameDelta: 0.1,
		},
		Player: PlayerConfig{
			StartX:            60,
			Radius:            25,
			Mass:              0.3,
			JumpImpulse:       200,
			Spin:              0.1,
			DriftGain:         5,
			OutOfBoundsMargin: 50,
		},
		Scroll: ScrollConfig{
			BaseSpeed:    60,
			SegmentWidth: 0,
			Layers: []LayerConfig{
				{Name: LayerGround, Multiplier: 1, Z: 5},
				{Name: LayerMountainsBack, Multiplier: 1.5, Z: 1},
				{Name: LayerMountainsFront, Multiplier: 3, Z: 2},
			},
		},
		Obstacles: ObstacleConfig{
			SpawnDelay:    5,
			SpawnInterval: 0.5,
			Lifetime:      10,
			Friction:      0.1,
			SpeedMin:      -800,
			SpeedRange:    500,
		},
		Overlay: OverlayConfig{
			Duration: 6,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultMoonWalkYAML
}
