package moonwalk

import "math"

// ScrollState is the observable state of one parallax layer.
type ScrollState struct {
	Offset          float64 // distance scrolled, wrapped to [0, ContainerWidth)
	SpeedMultiplier float64
	ContainerWidth  float64
}

// ScrollLayer is one horizontally looping background strip.
// It is built from equal-width segments laid edge to edge; a segment whose
// trailing edge leaves the viewport is moved behind the rightmost one.
type ScrollLayer struct {
	name         string
	z            int
	baseSpeed    float64
	multiplier   float64
	container    float64
	segmentWidth float64
	offset       float64
	segments     []float64 // left edge of each segment
}

// NewScrollLayer creates a layer covering containerWidth.
// A segmentWidth of 0 uses the container width. At least two segments are
// always created so the loop never shows a seam.
func NewScrollLayer(name string, containerWidth, segmentWidth, multiplier, baseSpeed float64, z int) *ScrollLayer {
	if segmentWidth <= 0 {
		segmentWidth = containerWidth
	}
	if segmentWidth <= 0 {
		segmentWidth = 1
	}

	n := int(math.Ceil(containerWidth/segmentWidth)) + 1
	if n < 2 {
		n = 2
	}

	segments := make([]float64, n)
	for i := range segments {
		segments[i] = float64(i) * segmentWidth
	}

	return &ScrollLayer{
		name:         name,
		z:            z,
		baseSpeed:    baseSpeed,
		multiplier:   multiplier,
		container:    containerWidth,
		segmentWidth: segmentWidth,
		segments:     segments,
	}
}

// Name returns the layer name.
func (l *ScrollLayer) Name() string {
	return l.name
}

// Z returns the draw order of the layer; higher is drawn later.
func (l *ScrollLayer) Z() int {
	return l.z
}

// Advance scrolls the layer left by dt × baseSpeed × multiplier.
// Non-positive dt is ignored.
func (l *ScrollLayer) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	shift := dt * l.baseSpeed * l.multiplier
	if shift == 0 {
		return
	}

	for i := range l.segments {
		l.segments[i] -= shift
	}

	if l.container > 0 {
		l.offset = math.Mod(l.offset+shift, l.container)
	}

	// Recycle until every segment reaches into the viewport again.
	for {
		i := l.leftmost()
		if l.segments[i]+l.segmentWidth > 0 {
			break
		}
		l.segments[i] = l.segments[l.rightmost()] + l.segmentWidth
	}
}

func (l *ScrollLayer) leftmost() int {
	idx := 0
	for i, x := range l.segments {
		if x < l.segments[idx] {
			idx = i
		}
	}
	return idx
}

func (l *ScrollLayer) rightmost() int {
	idx := 0
	for i, x := range l.segments {
		if x > l.segments[idx] {
			idx = i
		}
	}
	return idx
}

// State returns the current scroll state.
func (l *ScrollLayer) State() ScrollState {
	return ScrollState{
		Offset:          l.offset,
		SpeedMultiplier: l.multiplier,
		ContainerWidth:  l.container,
	}
}

// SegmentWidth returns the width of one segment.
func (l *ScrollLayer) SegmentWidth() float64 {
	return l.segmentWidth
}

// Segments returns a copy of the segment left edges.
func (l *ScrollLayer) Segments() []float64 {
	out := make([]float64, len(l.segments))
	copy(out, l.segments)
	return out
}
