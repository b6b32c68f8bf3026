package core

import "math"

// Vec2 is a point or direction in world space (y grows upwards).
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v scaled by k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// RectF is an axis-aligned box in world space.
// (X, Y) is the bottom-left corner.
type RectF struct {
	X, Y float64
	W, H float64
}

// Right returns the x-coordinate of the right edge.
func (r RectF) Right() float64 {
	return r.X + r.W
}

// Top returns the y-coordinate of the top edge.
func (r RectF) Top() float64 {
	return r.Y + r.H
}

// Center returns the center point of the box.
func (r RectF) Center() Vec2 {
	return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Intersects returns true if the boxes overlap with a positive area.
// Touching edges do not count as overlap.
func (r RectF) Intersects(o RectF) bool {
	if r.X >= o.Right() || o.X >= r.Right() {
		return false
	}
	if r.Y >= o.Top() || o.Y >= r.Top() {
		return false
	}
	return true
}

// Touches returns true if the boxes overlap or share an edge within eps.
func (r RectF) Touches(o RectF, eps float64) bool {
	if r.X > o.Right()+eps || o.X > r.Right()+eps {
		return false
	}
	if r.Y > o.Top()+eps || o.Y > r.Top()+eps {
		return false
	}
	return true
}

// Penetration returns the minimum translation that moves r out of o.
// The result is zero when the boxes do not intersect.
func (r RectF) Penetration(o RectF) Vec2 {
	if !r.Intersects(o) {
		return Vec2{}
	}

	pushLeft := o.X - r.Right() // negative
	pushRight := o.Right() - r.X
	pushDown := o.Y - r.Top() // negative
	pushUp := o.Top() - r.Y

	dx := pushRight
	if -pushLeft < pushRight {
		dx = pushLeft
	}
	dy := pushUp
	if -pushDown < pushUp {
		dy = pushDown
	}

	if math.Abs(dx) < math.Abs(dy) {
		return Vec2{X: dx}
	}
	return Vec2{Y: dy}
}
