package tui

import (
	"time"

	"github.com/vovakirdan/moonwalk/internal/core"
)

// keyHold is how long a lean key counts as held after its last press.
// Terminals report no key release, so auto-repeat keeps a held key fresh.
const keyHold = 250 * time.Millisecond

// keyboardTilt emulates an accelerometer with the lean keys. A held right
// key reads like a device tilted right, which the tilt filter turns into
// rightward drift.
type keyboardTilt struct {
	left, right time.Time
}

func (k *keyboardTilt) Press(a core.Action, now time.Time) {
	switch a {
	case core.ActionTiltLeft:
		k.left = now
	case core.ActionTiltRight:
		k.right = now
	}
}

// Raw returns the emulated raw sample at now: +1 left, -1 right, 0 level.
func (k *keyboardTilt) Raw(now time.Time) float64 {
	raw := 0.0
	if !k.left.IsZero() && now.Sub(k.left) < keyHold {
		raw++
	}
	if !k.right.IsZero() && now.Sub(k.right) < keyHold {
		raw--
	}
	return raw
}
