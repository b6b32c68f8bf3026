package gui

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/core"
	"github.com/vovakirdan/moonwalk/internal/games/moonwalk"
	"github.com/vovakirdan/moonwalk/internal/storage"
)

func TestRawTilt(t *testing.T) {
	tests := []struct {
		left, right bool
		want        float64
	}{
		{false, false, 0},
		{true, false, 1},
		{false, true, -1},
		{true, true, 0},
	}
	for _, tc := range tests {
		if got := rawTilt(tc.left, tc.right); got != tc.want {
			t.Errorf("rawTilt(%v, %v) = %v, expected %v", tc.left, tc.right, got, tc.want)
		}
	}
}

func TestScreenRect(t *testing.T) {
	// A 20x10 box resting on y=60 in a 375 high world.
	x, y, w, h := screenRect(core.RectF{X: 5, Y: 60, W: 20, H: 10}, 375)
	if x != 5 || y != 305 || w != 20 || h != 10 {
		t.Errorf("screenRect = (%v, %v, %v, %v), expected (5, 305, 20, 10)", x, y, w, h)
	}
}

func TestRimPoint(t *testing.T) {
	tests := []struct {
		angle  float64
		wx, wy float64
	}{
		{0, 110, 50},
		{math.Pi / 2, 100, 40}, // up in the world is up on screen
		{-math.Pi / 2, 100, 60},
	}
	for _, tc := range tests {
		x, y := rimPoint(100, 50, 10, tc.angle)
		if math.Abs(x-tc.wx) > 1e-9 || math.Abs(y-tc.wy) > 1e-9 {
			t.Errorf("rimPoint(angle %v) = (%v, %v), expected (%v, %v)", tc.angle, x, y, tc.wx, tc.wy)
		}
	}
}

func TestLayerColor(t *testing.T) {
	if layerColor(config.LayerGround) != groundColor {
		t.Error("ground layer should use the ground color")
	}
	if layerColor(config.LayerMountainsBack) != farColor {
		t.Error("far mountains should use the far color")
	}
	if layerColor(config.LayerMountainsFront) != nearColor {
		t.Error("near mountains should use the near color")
	}
}

func TestLabelHalfWidth(t *testing.T) {
	if got := labelHalfWidth("Score: 10", "score"); got != 27 {
		t.Errorf("score label offset = %d, expected 27", got)
	}
	if got := labelHalfWidth("High Score: 10", "highScore"); got != 0 {
		t.Errorf("high score label offset = %d, expected 0", got)
	}
}

type blockingPlayer struct {
	mu      sync.Mutex
	release chan struct{}
	played  []moonwalk.SoundID
}

func (p *blockingPlayer) Play(id moonwalk.SoundID, wait bool) {
	if wait {
		<-p.release
	}
	p.mu.Lock()
	p.played = append(p.played, id)
	p.mu.Unlock()
}

func (p *blockingPlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.played)
}

func TestAsyncAudioDoesNotBlock(t *testing.T) {
	p := &blockingPlayer{release: make(chan struct{})}
	a := asyncAudio{out: p}

	done := make(chan struct{})
	go func() {
		a.Play(moonwalk.SoundGameOver, true)
		a.Play(moonwalk.SoundJump, false)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Play blocked on a waiting cue")
	}
	if p.count() != 1 {
		t.Fatalf("played %d cues before release, expected the jump only", p.count())
	}

	close(p.release)
	deadline := time.Now().Add(time.Second)
	for p.count() != 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if p.count() != 2 {
		t.Errorf("played %d cues after release, expected 2", p.count())
	}
}

func TestSaveRun(t *testing.T) {
	store := storage.NewMemory()
	g := New(Options{Store: store, Seed: 1})

	g.saveRun(0)
	g.saveRun(42)

	runs, err := store.TopScores(g.game.ID(), 10)
	if err != nil {
		t.Fatalf("TopScores failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Score != 42 {
		t.Errorf("runs = %+v, expected a single 42", runs)
	}

	if w, h := g.Size(); w != 667 || h != 375 {
		t.Errorf("Size = %dx%d, expected the configured 667x375", w, h)
	}
}
