// Package gui runs MoonWalk in a desktop window through Ebiten.
package gui

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/core"
	"github.com/vovakirdan/moonwalk/internal/games/moonwalk"
	"github.com/vovakirdan/moonwalk/internal/storage"
)

// tiltSampleTicks spaces keyboard tilt samples at 5 Hz under the default
// 60 ticks per second.
const tiltSampleTicks = 12

// Options wires the window to its collaborators.
type Options struct {
	Config config.MoonWalkConfig
	Seed   int64
	Store  storage.Backend
	Audio  moonwalk.AudioPlayer
	Logger *log.Logger
}

// Game adapts a MoonWalk game to ebiten.Game.
type Game struct {
	game   *moonwalk.Game
	tilt   *moonwalk.TiltFilter
	store  storage.Backend
	logger *log.Logger

	width, height int
	ticks         int
	state         core.GameState
}

// New builds the window game and starts the first run.
func New(opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Config.Scroll.Layers == nil {
		opts.Config = config.DefaultMoonWalkConfig()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	tilt := moonwalk.NewTiltFilter()
	gameOpts := []moonwalk.Option{
		moonwalk.WithConfig(opts.Config),
		moonwalk.WithTilt(tilt),
		moonwalk.WithLogger(opts.Logger),
	}
	if opts.Audio != nil {
		gameOpts = append(gameOpts, moonwalk.WithAudio(asyncAudio{opts.Audio}))
	}
	if opts.Store != nil {
		gameOpts = append(gameOpts, moonwalk.WithStore(opts.Store))
	}

	w, h := int(opts.Config.World.Width), int(opts.Config.World.Height)
	if w <= 0 || h <= 0 {
		w, h = 667, 375
	}

	g := &Game{
		game:   moonwalk.New(gameOpts...),
		tilt:   tilt,
		store:  opts.Store,
		logger: opts.Logger,
		width:  w,
		height: h,
	}
	g.game.Reset(core.RuntimeConfig{ScreenW: w, ScreenH: h, TickRate: ebiten.DefaultTPS, Seed: opts.Seed})
	return g
}

// asyncAudio keeps blocking cues off the Ebiten update goroutine.
type asyncAudio struct {
	out moonwalk.AudioPlayer
}

func (a asyncAudio) Play(id moonwalk.SoundID, wait bool) {
	if wait {
		go a.out.Play(id, true)
		return
	}
	a.out.Play(id, false)
}

// Size returns the logical window size in points.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}

// Update advances the simulation by one Ebiten tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	in := core.NewInputFrame()
	in.DT = 1 / float64(ebiten.TPS())
	if jumpPressed() {
		in.Set(core.ActionJump)
	}

	if g.ticks%tiltSampleTicks == 0 {
		g.tilt.Sample(rawTilt(
			ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
			ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		))
	}
	g.ticks++

	result := g.game.Step(in)
	g.state = result.State
	if result.GameOver {
		g.saveRun(result.FinalScore)
	}
	return nil
}

func jumpPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
}

// rawTilt emulates an accelerometer reading: +1 left, -1 right.
func rawTilt(left, right bool) float64 {
	raw := 0.0
	if left {
		raw++
	}
	if right {
		raw--
	}
	return raw
}

func (g *Game) saveRun(score int) {
	if g.store == nil || score <= 0 {
		return
	}
	if _, err := g.store.SaveScore(g.game.ID(), score); err != nil {
		g.logger.Warn("saving run", "score", score, "err", err)
	}
}

var (
	skyColor      = color.RGBA{R: 10, G: 12, B: 30, A: 255}
	groundColor   = color.RGBA{R: 170, G: 170, B: 160, A: 255}
	farColor      = color.RGBA{R: 60, G: 60, B: 80, A: 255}
	nearColor     = color.RGBA{R: 100, G: 100, B: 115, A: 255}
	playerColor   = color.RGBA{R: 240, G: 240, B: 250, A: 255}
	markerColor   = color.RGBA{R: 255, G: 140, B: 40, A: 255}
	obstacleColor = color.RGBA{R: 200, G: 70, B: 60, A: 255}
	overlayColor  = color.RGBA{R: 60, G: 60, B: 60, A: 150}
)

// layerColor picks a strip color by layer name.
func layerColor(name string) color.RGBA {
	switch name {
	case config.LayerGround:
		return groundColor
	case config.LayerMountainsBack:
		return farColor
	default:
		return nearColor
	}
}

// screenRect flips a y-up world rectangle into y-down screen space.
func screenRect(r core.RectF, height float64) (x, y, w, h float32) {
	return float32(r.X), float32(height - r.Y - r.H), float32(r.W), float32(r.H)
}

// Draw renders the scene nodes back to front.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(skyColor)
	height := float64(g.height)

	for _, n := range g.game.Nodes() {
		switch n.Kind {
		case moonwalk.NodeLayer:
			x, y, w, h := screenRect(n.Bounds, height)
			vector.DrawFilledRect(screen, x, y, w, h, layerColor(n.Name), false)

		case moonwalk.NodePlayer:
			cx := float32(n.Bounds.X + n.Bounds.W/2)
			cy := float32(height - n.Bounds.Y - n.Bounds.H/2)
			r := float32(n.Radius)
			vector.DrawFilledCircle(screen, cx, cy, r, playerColor, true)
			// A marker on the rim shows the spin; world rotation is counterclockwise.
			mx, my := rimPoint(float64(cx), float64(cy), n.Radius*0.7, n.Rotation)
			vector.DrawFilledCircle(screen, float32(mx), float32(my), r/5, markerColor, true)

		case moonwalk.NodeObstacle:
			x, y, w, h := screenRect(n.Bounds, height)
			vector.DrawFilledRect(screen, x, y, w, h, obstacleColor, false)

		case moonwalk.NodeLabel:
			x, y, _, _ := screenRect(n.Bounds, height)
			ebitenutil.DebugPrintAt(screen, n.Text, int(x)-labelHalfWidth(n.Text, n.Name), int(y))

		case moonwalk.NodeOverlay:
			x, y, w, h := screenRect(n.Bounds, height)
			vector.DrawFilledRect(screen, x, y, w, h, overlayColor, false)
		}
	}
}

// rimPoint returns the point at distance r from (cx, cy) for a y-up angle,
// in y-down screen coordinates.
func rimPoint(cx, cy, r, angle float64) (float64, float64) {
	return cx + r*math.Cos(angle), cy - r*math.Sin(angle)
}

// labelHalfWidth centers the score label; the high score is left aligned.
func labelHalfWidth(text, name string) int {
	if name != "score" {
		return 0
	}
	// The debug font is 6 pixels wide.
	return len(text) * 6 / 2
}

// Layout keeps the world size regardless of the window size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, title string) error {
	w, h := g.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("gui: %w", err)
	}
	return nil
}
