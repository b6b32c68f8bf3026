package moonwalk

import (
	"math"

	"github.com/solarlune/resolv"

	"github.com/vovakirdan/moonwalk/internal/core"
)

// Category is a physics category bit.
type Category uint32

// Physics categories. Masks are unions of these bits.
const (
	CategoryPlayer Category = 1 << 1
	CategoryGround Category = 1 << 2
	CategoryWall   Category = 1 << 3
)

const (
	contactEpsilon = 0.5 // boxes closer than this count as touching
	cellSize       = 32
)

// Body is a rigid axis-aligned box owned by a PhysicsWorld.
type Body struct {
	Name     string
	Box      core.RectF // bottom-left origin, world space
	Velocity core.Vec2
	Mass     float64
	Friction float64

	Category    Category
	CollideWith Category // categories this body is pushed out of
	ContactWith Category // categories that raise contact events

	Gravity bool
	Dynamic bool

	// Data carries the owner's payload (e.g. the obstacle record).
	Data any

	id  int
	obj *resolv.Object
}

// ApplyImpulse changes velocity by impulse / mass.
func (b *Body) ApplyImpulse(impulse core.Vec2) {
	if b.Mass <= 0 {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Scale(1 / b.Mass))
}

// Center returns the center of the body's box.
func (b *Body) Center() core.Vec2 {
	return b.Box.Center()
}

// MoveTo places the body's center at p.
func (b *Body) MoveTo(p core.Vec2) {
	b.Box.X = p.X - b.Box.W/2
	b.Box.Y = p.Y - b.Box.H/2
}

// ContactEvent reports that two bodies started touching.
type ContactEvent struct {
	A, B *Body
}

// Involves returns the body of the pair whose category matches c, if any.
func (e ContactEvent) Involves(c Category) (*Body, bool) {
	switch {
	case e.A.Category&c != 0:
		return e.A, true
	case e.B.Category&c != 0:
		return e.B, true
	}
	return nil, false
}

type pairKey struct {
	lo, hi int
}

func keyOf(a, b *Body) pairKey {
	if a.id < b.id {
		return pairKey{a.id, b.id}
	}
	return pairKey{b.id, a.id}
}

// PhysicsWorld integrates bodies, resolves collisions and raises
// contact-begin events. Overlap candidates come from a resolv spatial hash;
// exact tests and resolution run on the boxes themselves.
type PhysicsWorld struct {
	gravity float64
	bounds  core.RectF
	space   *resolv.Space
	bodies  []*Body
	owners  map[*resolv.Object]*Body
	touch   map[pairKey]bool
	nextID  int
}

// NewPhysicsWorld creates a world with the given gravity (points/s², negative
// pulls down). bounds is the region indexed by the broadphase; bodies outside
// it keep moving but no longer collide.
func NewPhysicsWorld(gravity float64, bounds core.RectF) *PhysicsWorld {
	return &PhysicsWorld{
		gravity: gravity,
		bounds:  bounds,
		space:   resolv.NewSpace(int(math.Ceil(bounds.W)), int(math.Ceil(bounds.H)), cellSize, cellSize),
		owners:  make(map[*resolv.Object]*Body),
		touch:   make(map[pairKey]bool),
	}
}

// Add registers a body with the world.
func (w *PhysicsWorld) Add(b *Body) {
	w.nextID++
	b.id = w.nextID
	b.obj = resolv.NewObject(0, 0, 0, 0, b.Name)
	w.place(b)
	w.space.Add(b.obj)
	w.owners[b.obj] = b
	w.bodies = append(w.bodies, b)
}

// Remove detaches a body. It returns false if the body was not registered.
func (w *PhysicsWorld) Remove(b *Body) bool {
	for i, o := range w.bodies {
		if o != b {
			continue
		}
		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
		w.space.Remove(b.obj)
		delete(w.owners, b.obj)
		for k := range w.touch {
			if k.lo == b.id || k.hi == b.id {
				delete(w.touch, k)
			}
		}
		b.obj = nil
		return true
	}
	return false
}

// Bodies returns the registered bodies in insertion order.
func (w *PhysicsWorld) Bodies() []*Body {
	return w.bodies
}

// Len returns the number of registered bodies.
func (w *PhysicsWorld) Len() int {
	return len(w.bodies)
}

// Step advances the simulation by dt seconds and returns the contact-begin
// events of this step.
func (w *PhysicsWorld) Step(dt float64) []ContactEvent {
	if dt <= 0 {
		return nil
	}

	for _, b := range w.bodies {
		if !b.Dynamic {
			continue
		}
		if b.Gravity {
			b.Velocity.Y += w.gravity * dt
		}
		b.Box.X += b.Velocity.X * dt
		b.Box.Y += b.Velocity.Y * dt
		w.place(b)
	}

	for _, a := range w.bodies {
		if !a.Dynamic {
			continue
		}
		for _, b := range w.candidates(a) {
			// Dynamic pairs are handled once, from the lower id.
			if b.Dynamic && b.id < a.id {
				continue
			}
			w.resolve(a, b)
		}
	}

	for _, b := range w.bodies {
		if b.Dynamic && b.Friction > 0 && w.resting(b) {
			b.Velocity.X *= math.Max(0, 1-b.Friction*dt)
		}
	}

	return w.contacts()
}

// place syncs the broadphase object with the body's box. The object is padded
// so that bodies touching edge to edge still share a cell.
func (w *PhysicsWorld) place(b *Body) {
	if b.obj == nil {
		return
	}
	b.obj.X = b.Box.X - w.bounds.X - contactEpsilon
	b.obj.Y = b.Box.Y - w.bounds.Y - contactEpsilon
	b.obj.W = b.Box.W + 2*contactEpsilon
	b.obj.H = b.Box.H + 2*contactEpsilon
	b.obj.Update()
}

func (w *PhysicsWorld) candidates(a *Body) []*Body {
	c := a.obj.Check(0, 0)
	if c == nil {
		return nil
	}
	out := make([]*Body, 0, len(c.Objects))
	for _, o := range c.Objects {
		if b, ok := w.owners[o]; ok && b != a {
			out = append(out, b)
		}
	}
	return out
}

func (w *PhysicsWorld) resolve(a, b *Body) {
	aMoves := a.Dynamic && a.CollideWith&b.Category != 0
	bMoves := b.Dynamic && b.CollideWith&a.Category != 0
	if !aMoves && !bMoves {
		return
	}

	pen := a.Box.Penetration(b.Box)
	if pen == (core.Vec2{}) {
		return
	}

	share := 1.0 // part of the correction applied to a
	switch {
	case aMoves && bMoves:
		ia, ib := 1/a.Mass, 1/b.Mass
		share = ia / (ia + ib)
	case bMoves:
		share = 0
	}

	a.Box.X += pen.X * share
	a.Box.Y += pen.Y * share
	b.Box.X -= pen.X * (1 - share)
	b.Box.Y -= pen.Y * (1 - share)

	if pen.X != 0 {
		a.Velocity.X, b.Velocity.X = settle(a.Velocity.X, b.Velocity.X, pen.X, a, b, aMoves, bMoves)
	} else {
		a.Velocity.Y, b.Velocity.Y = settle(a.Velocity.Y, b.Velocity.Y, pen.Y, a, b, aMoves, bMoves)
	}

	w.place(a)
	w.place(b)
}

// settle removes the approaching component of the velocities along one axis.
// normal points from b towards a.
func settle(va, vb, normal float64, a, b *Body, aMoves, bMoves bool) (float64, float64) {
	rel := va - vb
	if rel*normal >= 0 {
		return va, vb // already separating
	}
	switch {
	case aMoves && bMoves:
		v := (va*a.Mass + vb*b.Mass) / (a.Mass + b.Mass)
		return v, v
	case aMoves:
		return vb, vb
	default:
		return va, va
	}
}

// resting reports whether b sits on top of a body it collides with.
func (w *PhysicsWorld) resting(b *Body) bool {
	for _, o := range w.candidates(b) {
		if b.CollideWith&o.Category == 0 {
			continue
		}
		if math.Abs(b.Box.Y-o.Box.Top()) <= contactEpsilon &&
			b.Box.X < o.Box.Right() && o.Box.X < b.Box.Right() {
			return true
		}
	}
	return false
}

func (w *PhysicsWorld) contacts() []ContactEvent {
	now := make(map[pairKey]bool, len(w.touch))
	var events []ContactEvent

	for _, a := range w.bodies {
		for _, b := range w.candidates(a) {
			if b.id < a.id {
				continue
			}
			if a.ContactWith&b.Category == 0 && b.ContactWith&a.Category == 0 {
				continue
			}
			if !a.Box.Touches(b.Box, contactEpsilon) {
				continue
			}
			k := keyOf(a, b)
			now[k] = true
			if !w.touch[k] {
				events = append(events, ContactEvent{A: a, B: b})
			}
		}
	}

	w.touch = now
	return events
}
