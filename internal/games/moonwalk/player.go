package moonwalk

import (
	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/core"
)

// MaxJumps is the number of jumps available after touching down.
const MaxJumps = 2

const playerFriction = 0.2

// PlayerState is the runner: a physics body plus the jump counter and the
// visual rotation.
type PlayerState struct {
	Body           *Body
	JumpsRemaining int
	Rotation       float64
	impulse        float64
}

// NewPlayer creates the player body centered at (startX, groundLevel).
// The body starts half sunk into the ground and is pushed out on the
// first physics step.
func NewPlayer(cfg config.PlayerConfig, groundLevel float64) *PlayerState {
	size := cfg.Radius * 2
	body := &Body{
		Name:        "player",
		Box:         core.RectF{W: size, H: size},
		Mass:        cfg.Mass,
		Friction:    playerFriction,
		Category:    CategoryPlayer,
		CollideWith: CategoryWall | CategoryGround,
		ContactWith: CategoryWall | CategoryGround,
		Gravity:     true,
		Dynamic:     true,
	}
	body.MoveTo(core.Vec2{X: cfg.StartX, Y: groundLevel})

	return &PlayerState{
		Body:           body,
		JumpsRemaining: MaxJumps,
		impulse:        cfg.JumpImpulse,
	}
}

// Position returns the center of the player.
func (p *PlayerState) Position() core.Vec2 {
	return p.Body.Center()
}

// Velocity returns the player's velocity.
func (p *PlayerState) Velocity() core.Vec2 {
	return p.Body.Velocity
}

// Jump handles one jump request. With jumps left it zeroes the vertical
// velocity, applies the upward impulse and spends a jump. With none left it
// does nothing and returns false.
func (p *PlayerState) Jump() bool {
	if p.JumpsRemaining <= 0 {
		return false
	}
	p.Body.Velocity = core.Vec2{}
	p.Body.ApplyImpulse(core.Vec2{Y: p.impulse})
	p.JumpsRemaining--
	return true
}

// Land recharges both jumps.
func (p *PlayerState) Land() {
	p.JumpsRemaining = MaxJumps
}

// Drift shifts the player horizontally.
func (p *PlayerState) Drift(dx float64) {
	p.Body.Box.X += dx
}
