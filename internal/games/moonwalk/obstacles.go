package moonwalk

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/moonwalk/internal/core"
)

// SizeClass selects the obstacle silhouette.
type SizeClass int

const (
	SizeSmall SizeClass = iota
	SizeMedium
	SizeBig
)

// String returns the size name.
func (s SizeClass) String() string {
	switch s {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeBig:
		return "big"
	default:
		return fmt.Sprintf("size(%d)", int(s))
	}
}

// HeightBand selects the obstacle's vertical placement.
type HeightBand int

const (
	BandLow HeightBand = iota
	BandMid
	BandHigh
)

// String returns the band name.
func (b HeightBand) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMid:
		return "mid"
	case BandHigh:
		return "high"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// ErrInvalidGeometry is returned for unknown size classes or height bands.
var ErrInvalidGeometry = errors.New("moonwalk: invalid obstacle geometry")

// Obstacle geometry shared by every size class.
const (
	ObstacleCornerRadius = 18
	obstaclePathOffset   = 10 // silhouette starts 10 points left of the position
	obstacleDensity      = 0.001
)

var obstacleSizes = map[SizeClass]core.Vec2{
	SizeSmall:  {X: 100, Y: 70},
	SizeMedium: {X: 200, Y: 100},
	SizeBig:    {X: 500, Y: 130},
}

var bandOffsets = map[HeightBand]float64{
	BandLow:  -50, // partly sunk below the ground line
	BandMid:  60,
	BandHigh: 100,
}

// Obstacle describes one spawned rounded-rectangle wall.
type Obstacle struct {
	Size         SizeClass
	Band         HeightBand
	Position     core.Vec2 // node origin; the silhouette starts at Position.X-10
	Velocity     core.Vec2
	SpawnedAt    float64 // simulation seconds
	Width        float64
	Height       float64
	CornerRadius float64
}

// Bounds returns the silhouette box in world space.
func (o Obstacle) Bounds() core.RectF {
	return core.RectF{
		X: o.Position.X - obstaclePathOffset,
		Y: o.Position.Y,
		W: o.Width,
		H: o.Height,
	}
}

// ObstacleFactory builds obstacles and assigns their leftward speed.
type ObstacleFactory struct {
	rng        RandomSource
	speedMin   int
	speedRange int
}

// NewObstacleFactory creates a factory drawing speeds from
// [speedMin, speedMin+speedRange).
func NewObstacleFactory(rng RandomSource, speedMin, speedRange int) *ObstacleFactory {
	return &ObstacleFactory{
		rng:        rng,
		speedMin:   speedMin,
		speedRange: speedRange,
	}
}

// Create builds an obstacle at the right edge of the world.
func (f *ObstacleFactory) Create(size SizeClass, band HeightBand, worldWidth, groundLevel float64) (Obstacle, error) {
	dims, ok := obstacleSizes[size]
	if !ok {
		return Obstacle{}, fmt.Errorf("%w: %s", ErrInvalidGeometry, size)
	}
	dy, ok := bandOffsets[band]
	if !ok {
		return Obstacle{}, fmt.Errorf("%w: %s", ErrInvalidGeometry, band)
	}

	speed := float64(f.rng.Intn(f.speedRange) + f.speedMin)

	return Obstacle{
		Size:         size,
		Band:         band,
		Position:     core.Vec2{X: worldWidth, Y: groundLevel + dy},
		Velocity:     core.Vec2{X: speed},
		Width:        dims.X,
		Height:       dims.Y,
		CornerRadius: ObstacleCornerRadius,
	}, nil
}
