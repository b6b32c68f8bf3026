package core

import "testing"

func TestRectFIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     RectF
		expected bool
	}{
		{"overlapping", RectF{0, 0, 10, 10}, RectF{5, 5, 10, 10}, true},
		{"apart horizontally", RectF{0, 0, 10, 10}, RectF{20, 0, 10, 10}, false},
		{"shared vertical edge", RectF{0, 0, 10, 10}, RectF{10, 0, 10, 10}, false},
		{"resting on top", RectF{0, 10, 10, 10}, RectF{0, 0, 10, 10}, false},
		{"contained", RectF{0, 0, 100, 100}, RectF{10, 10, 1, 1}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectFTouches(t *testing.T) {
	ground := RectF{0, 0, 100, 10}
	resting := RectF{10, 10, 5, 5}
	floating := RectF{10, 12, 5, 5}

	if !resting.Touches(ground, 0.01) {
		t.Error("box resting on the ground should touch it")
	}
	if floating.Touches(ground, 0.01) {
		t.Error("box 2 units above the ground should not touch it")
	}
}

func TestRectFPenetration(t *testing.T) {
	ground := RectF{0, 0, 100, 10}

	tests := []struct {
		name string
		box  RectF
		want Vec2
	}{
		{"sunk into top", RectF{40, 8, 10, 10}, Vec2{Y: 2}},
		{"poking left edge", RectF{-8, 2, 10, 6}, Vec2{X: -2}},
		{"poking right edge", RectF{97, 2, 10, 6}, Vec2{X: 3}},
		{"separate", RectF{40, 20, 10, 10}, Vec2{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.box.Penetration(ground); got != tc.want {
				t.Errorf("Penetration() = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestVec2Ops(t *testing.T) {
	v := Vec2{X: 1, Y: 2}.Add(Vec2{X: 3, Y: -1}).Scale(2)
	if v != (Vec2{X: 8, Y: 2}) {
		t.Errorf("Add/Scale = %+v, expected {8 2}", v)
	}
	if c := (RectF{X: 0, Y: 0, W: 4, H: 2}).Center(); c != (Vec2{X: 2, Y: 1}) {
		t.Errorf("Center() = %+v, expected {2 1}", c)
	}
}
