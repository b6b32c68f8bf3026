// Package moonwalk implements the MoonWalk endless runner: a ball rolls
// through a parallax landscape, jumps (twice in the air at most) over
// obstacles that spawn at the right edge, and drifts sideways with the device
// tilt. Leaving the screen horizontally ends the run and rebuilds the world.
//
// The package is pure simulation. Platforms feed it input frames, read its
// render nodes and provide the high score store and the audio player.
package moonwalk

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/core"
)

// HighScoreKey is the store slot holding the best score.
const HighScoreKey = "highScore"

// SoundID names an audio cue.
type SoundID int

const (
	SoundJump SoundID = iota
	SoundGameOver
)

// String returns the cue name.
func (s SoundID) String() string {
	switch s {
	case SoundJump:
		return "jump"
	case SoundGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("sound(%d)", int(s))
	}
}

// HighScoreStore persists one integer per key.
type HighScoreStore interface {
	HighScore(key string) (int, error)
	SetHighScore(key string, value int) error
}

// AudioPlayer plays cues. With waitForCompletion the call returns once the
// cue has finished; platforms that cannot block the tick dispatch it.
type AudioPlayer interface {
	Play(id SoundID, waitForCompletion bool)
}

// Phase is the state of the top-level loop.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseGameOver
)

// scene is one generation of world entities. Game over discards it whole.
type scene struct {
	layers  []*ScrollLayer
	physics *PhysicsWorld
	ground  *Body
	player  *PlayerState
	spawner *SpawnScheduler
}

// Game implements the MoonWalk game loop.
type Game struct {
	cfg     config.MoonWalkConfig
	runtime core.RuntimeConfig
	store   HighScoreStore
	audio   AudioPlayer
	tilt    Tilt
	logger  *log.Logger
	rng     RandomSource
	fixRNG  bool // rng was injected and survives Reset

	sched *Scheduler
	scene *scene
	phase Phase

	now       float64 // simulation seconds since Reset
	tickCount int
	score     int
	highScore int
	resets    int
	overlay   bool
	worldW    float64
	worldH    float64
}

// Option configures a Game.
type Option func(*Game)

// WithConfig sets the tuning.
func WithConfig(cfg config.MoonWalkConfig) Option {
	return func(g *Game) { g.cfg = cfg }
}

// WithStore sets the high score store.
func WithStore(s HighScoreStore) Option {
	return func(g *Game) { g.store = s }
}

// WithAudio sets the audio player.
func WithAudio(a AudioPlayer) Option {
	return func(g *Game) { g.audio = a }
}

// WithTilt sets the tilt source read every tick.
func WithTilt(t Tilt) Option {
	return func(g *Game) { g.tilt = t }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithRandom injects the random source. Without it Reset seeds one from
// the runtime config.
func WithRandom(r RandomSource) Option {
	return func(g *Game) {
		g.rng = r
		g.fixRNG = r != nil
	}
}

type nopAudio struct{}

func (nopAudio) Play(SoundID, bool) {}

type stillTilt struct{}

func (stillTilt) Value() float64 { return 0 }

// New creates a game. Call Reset before the first Step.
func New(opts ...Option) *Game {
	g := &Game{
		cfg:     config.DefaultMoonWalkConfig(),
		runtime: core.DefaultConfig(),
		audio:   nopAudio{},
		tilt:    stillTilt{},
		logger:  log.New(io.Discard),
		sched:   NewScheduler(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "moonwalk"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "MoonWalk"
}

// Reset starts from scratch: clock, timers, score and world.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if g.runtime.TickRate <= 0 {
		g.runtime.TickRate = 60
	}
	if !g.fixRNG {
		g.rng = NewRandomSource(runtime.Seed)
	}

	g.worldW = g.cfg.World.Width
	if g.worldW <= 0 {
		g.worldW = float64(runtime.ScreenW)
	}
	g.worldH = g.cfg.World.Height
	if g.worldH <= 0 {
		g.worldH = float64(runtime.ScreenH)
	}

	g.sched.Clear()
	if g.scene != nil {
		g.scene.spawner.Clear()
	}
	g.now = 0
	g.tickCount = 0
	g.score = 0
	g.resets = 0
	g.overlay = false
	g.resetWorld()
}

// resetWorld builds a fresh generation of every owned entity and restarts
// the spawn cadence. The previous generation is dropped, not patched.
func (g *Game) resetWorld() {
	w := g.cfg.World
	width := g.worldW

	layers := make([]*ScrollLayer, 0, len(g.cfg.Scroll.Layers))
	for _, lc := range g.cfg.Scroll.Layers {
		layers = append(layers, NewScrollLayer(lc.Name, width, g.cfg.Scroll.SegmentWidth, lc.Multiplier, g.cfg.Scroll.BaseSpeed, lc.Z))
	}

	margin := g.cfg.Player.OutOfBoundsMargin
	bounds := core.RectF{
		X: -width - margin,
		Y: -w.GroundLevel - 40,
		W: 3*width + 2*margin + 600,
		H: 2*g.worldH + w.GroundLevel + 40,
	}
	physics := NewPhysicsWorld(w.Gravity, bounds)

	// The ground slab spans one screen either side of the visible area so
	// obstacles and the player never slide off its ends while in view.
	thickness := w.GroundLevel + 20
	ground := &Body{
		Name:        "ground",
		Box:         core.RectF{X: -width, Y: w.GroundLevel - thickness, W: 3 * width, H: thickness},
		Category:    CategoryGround,
		CollideWith: CategoryPlayer | CategoryWall,
		ContactWith: CategoryPlayer | CategoryWall,
	}
	physics.Add(ground)

	player := NewPlayer(g.cfg.Player, w.GroundLevel)
	physics.Add(player.Body)

	spawner := NewSpawnScheduler(g.cfg.Obstacles, g.sched, physics, g.rng, width, w.GroundLevel, g.logger)

	g.scene = &scene{
		layers:  layers,
		physics: physics,
		ground:  ground,
		player:  player,
		spawner: spawner,
	}
	g.phase = PhasePlaying

	spawner.Start(g.now)
	g.loadHighScore()
}

func (g *Game) loadHighScore() {
	if g.store == nil {
		return
	}
	v, err := g.store.HighScore(HighScoreKey)
	if err != nil {
		g.logger.Debug("high score unavailable", "err", err)
		v = 0
	}
	g.highScore = v
}

// Step advances the game by one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.scene == nil {
		g.Reset(g.runtime)
	}
	s := g.scene

	dt := in.DT
	if dt <= 0 {
		dt = 1 / float64(g.runtime.TickRate)
	}
	if dt > g.cfg.World.MaxFrameDelta {
		dt = g.cfg.World.MaxFrameDelta
	}
	g.now += dt
	g.tickCount++

	g.score++
	s.player.Rotation -= g.cfg.Player.Spin
	for _, l := range s.layers {
		l.Advance(dt)
	}

	g.sched.RunDue(g.now)

	for i := 0; i < in.Jumps; i++ {
		if s.player.Jump() {
			g.audio.Play(SoundJump, false)
		}
		g.logger.Debug("jump", "jumpsRemaining", s.player.JumpsRemaining)
	}

	// Every contact-begin recharges, including an obstacle settling on the
	// ground while the player is airborne.
	if events := s.physics.Step(dt); len(events) > 0 {
		s.player.Land()
	}
	s.spawner.Sync()
	s.spawner.Prune()

	s.player.Drift(g.tilt.Value() * g.cfg.Player.DriftGain)
	if x := s.player.Position().X; g.outOfBounds(x) {
		return g.gameOver(x)
	}

	return core.StepResult{State: g.State()}
}

// outOfBounds checks the horizontal position only, on whole points: x is
// truncated toward zero before it is compared.
func (g *Game) outOfBounds(x float64) bool {
	m := math.Trunc(g.cfg.Player.OutOfBoundsMargin)
	xi := math.Trunc(x)
	return xi < -m || xi > math.Trunc(g.worldW)+m
}

// gameOver ends the run, persists a new best and rebuilds the world.
func (g *Game) gameOver(x float64) core.StepResult {
	g.phase = PhaseGameOver
	final := g.score
	g.logger.Info("player out of bounds", "x", x, "score", final)

	g.scene.spawner.Clear()
	g.sched.Clear()

	if final > g.highScore {
		g.highScore = final
		if g.store != nil {
			if err := g.store.SetHighScore(HighScoreKey, final); err != nil {
				g.logger.Warn("saving high score", "err", err)
			}
		}
		g.logger.Info("new high score", "score", final)
	}
	g.score = 0
	g.resets++

	g.resetWorld()
	g.audio.Play(SoundGameOver, true)
	g.showOverlay()

	return core.StepResult{
		State:      g.State(),
		GameOver:   true,
		FinalScore: final,
	}
}

func (g *Game) showOverlay() {
	g.overlay = true
	g.sched.After(g.now, g.cfg.Overlay.Duration, func(float64) {
		g.overlay = false
	})
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:     g.score,
		HighScore: g.highScore,
		Resets:    g.resets,
		Overlay:   g.overlay,
	}
}

// Phase returns the loop state.
func (g *Game) Phase() Phase {
	return g.phase
}

// Now returns the simulation clock in seconds.
func (g *Game) Now() float64 {
	return g.now
}

// Player returns the current player, nil before the world is built.
func (g *Game) Player() *PlayerState {
	if g.scene == nil {
		return nil
	}
	return g.scene.player
}

// Layers returns the current scroll layers.
func (g *Game) Layers() []*ScrollLayer {
	if g.scene == nil {
		return nil
	}
	return g.scene.layers
}

// Obstacles returns the live obstacles.
func (g *Game) Obstacles() []Obstacle {
	if g.scene == nil {
		return nil
	}
	return g.scene.spawner.Obstacles()
}

// WorldSize returns the simulated area.
func (g *Game) WorldSize() (w, h float64) {
	return g.worldW, g.worldH
}
