// Package audio plays the MoonWalk sound cues through the system speaker.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/games/moonwalk"
)

// Player mixes cues into the speaker. It is safe for concurrent use.
type Player struct {
	mu     sync.Mutex
	volume float64
	closed bool
	quit   chan struct{}
	logger *log.Logger
}

var _ moonwalk.AudioPlayer = (*Player)(nil)

// New initializes the speaker. Callers that can run silently should use Open.
func New(cfg config.AudioConfig, logger *log.Logger) (*Player, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Player{volume: cfg.Volume, quit: make(chan struct{}), logger: logger}, nil
}

// Open returns a speaker-backed player, or Nop when audio is disabled or no
// output device is available.
func Open(cfg config.AudioConfig, logger *log.Logger) moonwalk.AudioPlayer {
	if !cfg.Enabled {
		return Nop{}
	}
	p, err := New(cfg, logger)
	if err != nil {
		logger.Warn("audio disabled", "err", err)
		return Nop{}
	}
	return p
}

// Play starts the cue. With wait the call returns after the cue finished.
func (p *Player) Play(id moonwalk.SoundID, wait bool) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	s := Cue(id, p.volume)
	p.mu.Unlock()
	if s == nil {
		p.logger.Debug("unknown cue", "id", id)
		return
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() { close(done) })))
	if wait {
		select {
		case <-done:
		case <-p.quit:
		}
	}
}

// Close stops playback and releases the output device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.quit)
	speaker.Clear()
	speaker.Close()
}

// Nop discards every cue.
type Nop struct{}

func (Nop) Play(moonwalk.SoundID, bool) {}
