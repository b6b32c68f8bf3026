package moonwalk

import (
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/core"
)

// NodeKind tells a render surface how to draw a node.
type NodeKind int

const (
	NodeLayer NodeKind = iota
	NodePlayer
	NodeObstacle
	NodeLabel
	NodeOverlay
)

// Draw order of the scene nodes. Layers carry their configured z.
const (
	ZPlayer   = 10
	ZObstacle = 12
	ZLabel    = 20
	ZOverlay  = 25
)

// Node is one visual element in world coordinates (y up).
type Node struct {
	Kind     NodeKind
	Name     string
	Bounds   core.RectF
	Z        int
	Rotation float64 // radians, players only
	Radius   float64 // corner radius for obstacles, body radius for the player
	Text     string  // labels only
	Size     float64 // label font size in points
}

// Nodes returns the scene as z-ordered nodes.
func (g *Game) Nodes() []Node {
	s := g.scene
	w, h := g.worldW, g.worldH
	nodes := make([]Node, 0, 16)

	for _, l := range s.layers {
		for _, x := range l.segments {
			nodes = append(nodes, Node{
				Kind:   NodeLayer,
				Name:   l.Name(),
				Bounds: core.RectF{X: x, Y: 0, W: l.SegmentWidth(), H: g.layerHeight(l.Name())},
				Z:      l.Z(),
			})
		}
	}

	nodes = append(nodes, Node{
		Kind:     NodePlayer,
		Name:     "player",
		Bounds:   s.player.Body.Box,
		Z:        ZPlayer,
		Rotation: s.player.Rotation,
		Radius:   g.cfg.Player.Radius,
	})

	for _, o := range s.spawner.Obstacles() {
		nodes = append(nodes, Node{
			Kind:   NodeObstacle,
			Name:   o.Size.String(),
			Bounds: o.Bounds(),
			Z:      ZObstacle,
			Radius: o.CornerRadius,
		})
	}

	nodes = append(nodes,
		Node{
			Kind:   NodeLabel,
			Name:   "score",
			Bounds: core.RectF{X: w / 2, Y: h - 100},
			Z:      ZLabel,
			Text:   fmt.Sprintf("Score: %d", g.score),
			Size:   32,
		},
		Node{
			Kind:   NodeLabel,
			Name:   "highScore",
			Bounds: core.RectF{X: w / 5, Y: h - 50},
			Z:      ZLabel,
			Text:   fmt.Sprintf("High Score: %d", g.highScore),
			Size:   10,
		},
	)

	if g.overlay {
		nodes = append(nodes, Node{
			Kind:   NodeOverlay,
			Name:   "grayFilter",
			Bounds: core.RectF{W: w, H: h},
			Z:      ZOverlay,
		})
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Z < nodes[j].Z
	})
	return nodes
}

// layerHeight is the visual height of each background strip.
func (g *Game) layerHeight(name string) float64 {
	switch name {
	case config.LayerGround:
		return g.cfg.World.GroundLevel
	case config.LayerMountainsBack:
		return g.worldH * 0.6
	default:
		return g.worldH * 0.4
	}
}

// Visual characters for the terminal renderer
const (
	GroundChar   = '▀'
	SoilChar     = '▒'
	FarPeakChar  = '░'
	NearPeakChar = '▓'
	WallH        = '─'
	WallV        = '│'
)

var ballFrames = []rune{'◐', '◓', '◑', '◒'}

// Render draws the scene into a character screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.scene == nil || dst.Width() == 0 || dst.Height() == 0 {
		return
	}
	p := projection{
		sx:   float64(dst.Width()) / g.worldW,
		sy:   float64(dst.Height()) / g.worldH,
		rows: dst.Height(),
	}

	for _, n := range g.Nodes() {
		switch n.Kind {
		case NodeLayer:
			g.drawLayer(dst, p, n)
		case NodePlayer:
			g.drawPlayer(dst, p, n)
		case NodeObstacle:
			drawObstacle(dst, p, n)
		case NodeLabel:
			x, y := p.point(n.Bounds.X, n.Bounds.Y)
			dst.DrawTextColored(x-len([]rune(n.Text))/2, y, n.Text, core.ColorBrightWhite)
		case NodeOverlay:
			grayOut(dst)
		}
	}
}

// projection maps world points to screen cells (y flipped).
type projection struct {
	sx, sy float64
	rows   int
}

func (p projection) point(x, y float64) (int, int) {
	return int(math.Floor(x * p.sx)), p.rows - 1 - int(math.Floor(y*p.sy))
}

// rect returns the cell rectangle covering r.
func (p projection) rect(r core.RectF) core.Rect {
	x0 := int(math.Floor(r.X * p.sx))
	x1 := int(math.Ceil(r.Right() * p.sx))
	top := p.rows - int(math.Ceil(r.Top()*p.sy))
	bottom := p.rows - int(math.Floor(r.Y*p.sy))
	return core.NewRect(x0, top, core.Max(1, x1-x0), core.Max(1, bottom-top))
}

func (g *Game) drawLayer(dst *core.Screen, p projection, n Node) {
	r := p.rect(n.Bounds)
	switch n.Name {
	case config.LayerGround:
		dst.DrawHLine(r.X, r.Y, r.W, GroundChar, core.ColorGreen)
		dst.DrawRect(core.NewRect(r.X, r.Y+1, r.W, r.H-1), SoilChar, core.ColorDarkGray)
	case config.LayerMountainsBack:
		drawPeak(dst, r, FarPeakChar, core.ColorBlue)
	default:
		drawPeak(dst, r, NearPeakChar, core.ColorMagenta)
	}
}

// drawPeak draws a triangular mountain filling r.
func drawPeak(dst *core.Screen, r core.Rect, ch rune, c core.Color) {
	if r.H <= 0 {
		return
	}
	mid := r.X + r.W/2
	for row := 0; row < r.H; row++ {
		half := (r.W / 2) * (row + 1) / r.H
		dst.DrawHLine(mid-half, r.Y+row, 2*half+1, ch, c)
	}
}

func (g *Game) drawPlayer(dst *core.Screen, p projection, n Node) {
	r := p.rect(n.Bounds)
	turns := int(math.Floor(-n.Rotation / (math.Pi / 2)))
	frame := ballFrames[((turns%len(ballFrames))+len(ballFrames))%len(ballFrames)]
	dst.DrawRect(r, '●', core.ColorYellow)
	cx, cy := r.Center()
	dst.SetColored(cx, cy, frame, core.ColorOrange)
}

func drawObstacle(dst *core.Screen, p projection, n Node) {
	r := p.rect(n.Bounds)
	right, bottom := r.Right()-1, r.Bottom()-1
	dst.DrawHLine(r.X+1, r.Y, r.W-2, WallH, core.ColorCyan)
	dst.DrawHLine(r.X+1, bottom, r.W-2, WallH, core.ColorCyan)
	for y := r.Y + 1; y < bottom; y++ {
		dst.SetColored(r.X, y, WallV, core.ColorCyan)
		dst.SetColored(right, y, WallV, core.ColorCyan)
	}
	dst.SetColored(r.X, r.Y, '╭', core.ColorCyan)
	dst.SetColored(right, r.Y, '╮', core.ColorCyan)
	dst.SetColored(r.X, bottom, '╰', core.ColorCyan)
	dst.SetColored(right, bottom, '╯', core.ColorCyan)
}

// grayOut recolors every cell gray, keeping the runes.
func grayOut(dst *core.Screen) {
	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			c := dst.GetCell(x, y)
			if c.Rune == ' ' {
				c.Rune = '░'
			}
			dst.SetColored(x, y, c.Rune, core.ColorGray)
		}
	}
}
