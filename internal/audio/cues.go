package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/moonwalk/internal/games/moonwalk"
)

const sampleRate = beep.SampleRate(44100)

const (
	jumpDuration     = 140 * time.Millisecond
	gameOverNote     = 260 * time.Millisecond
	gameOverTail     = 520 * time.Millisecond
	cueAttack        = 8 * time.Millisecond
	cueRelease       = 60 * time.Millisecond
	jumpStartHz      = 420.0
	jumpEndHz        = 980.0
	gameOverFinalGap = 40 * time.Millisecond
)

// gameOverNotes is a falling minor arpeggio, E5 C5 A4, then a low E4 tail.
var gameOverNotes = []float64{659.25, 523.25, 440.0}

const gameOverTailHz = 329.63

// sweep is a sine whose pitch glides linearly from one frequency to another.
type sweep struct {
	from, to float64
	phase    float64
	pos      int
	total    int
}

func newSweep(from, to float64, d time.Duration) *sweep {
	return &sweep{from: from, to: to, total: sampleRate.N(d)}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		freq := s.from + (s.to-s.from)*float64(s.pos)/float64(s.total)
		v := math.Sin(2 * math.Pi * s.phase)
		samples[i][0] = v
		samples[i][1] = v

		s.phase += freq / float64(sampleRate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// envelope fades a finite streamer in and out over its length.
type envelope struct {
	s                        beep.Streamer
	pos, total, att, release int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration) *envelope {
	return &envelope{
		s:       s,
		total:   sampleRate.N(d),
		att:     sampleRate.N(attack),
		release: sampleRate.N(release),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if rest := e.total - e.pos; len(samples) > rest {
		samples = samples[:rest]
	}
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.att > 0 && e.pos < e.att {
			vol = float64(e.pos) / float64(e.att)
		}
		if left := e.total - e.pos; e.release > 0 && left < e.release {
			vol = math.Min(vol, float64(left)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// withVolume scales a streamer linearly; 0 or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.Silence(sampleRate.N(d))
	}
	return newEnvelope(beep.Take(sampleRate.N(d), sine), d, cueAttack, cueRelease)
}

// Cue builds a fresh finite streamer for id, or nil for an unknown cue.
func Cue(id moonwalk.SoundID, volume float64) beep.Streamer {
	switch id {
	case moonwalk.SoundJump:
		chirp := newEnvelope(newSweep(jumpStartHz, jumpEndHz, jumpDuration), jumpDuration, cueAttack, cueRelease)
		return withVolume(chirp, volume*0.6)
	case moonwalk.SoundGameOver:
		parts := make([]beep.Streamer, 0, len(gameOverNotes)+2)
		for _, f := range gameOverNotes {
			parts = append(parts, tone(f, gameOverNote))
		}
		parts = append(parts, beep.Silence(sampleRate.N(gameOverFinalGap)), tone(gameOverTailHz, gameOverTail))
		return withVolume(beep.Seq(parts...), volume)
	default:
		return nil
	}
}

// CueLength returns how long id plays.
func CueLength(id moonwalk.SoundID) time.Duration {
	switch id {
	case moonwalk.SoundJump:
		return jumpDuration
	case moonwalk.SoundGameOver:
		return time.Duration(len(gameOverNotes))*gameOverNote + gameOverFinalGap + gameOverTail
	default:
		return 0
	}
}
