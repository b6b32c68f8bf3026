package moonwalk

import (
	"math"
	"sync/atomic"
)

// Tilt provides the smoothed lateral tilt read once per tick.
type Tilt interface {
	Value() float64
}

// TiltFilter smooths raw accelerometer samples into the drift signal.
//
// Each sample applies tilt' = raw*(-1) + tilt*(-0.5). The sign flip and the
// negative feedback term are part of the game feel and must stay as they are.
//
// Samples arrive from other goroutines (keyboard sampler, websocket
// controller) while the tick reads Value. The value lives in a single atomic
// cell: last write wins and readers never block.
type TiltFilter struct {
	bits atomic.Uint64
}

// NewTiltFilter returns a filter at rest (tilt 0).
func NewTiltFilter() *TiltFilter {
	return &TiltFilter{}
}

// Sample folds one raw reading into the filter and returns the new value.
func (f *TiltFilter) Sample(raw float64) float64 {
	for {
		old := f.bits.Load()
		next := raw*-1 + math.Float64frombits(old)*-0.5
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Value returns the current smoothed tilt.
func (f *TiltFilter) Value() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Set overrides the smoothed value, e.g. to hold a constant tilt.
func (f *TiltFilter) Set(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Reset returns the filter to rest.
func (f *TiltFilter) Reset() {
	f.Set(0)
}
