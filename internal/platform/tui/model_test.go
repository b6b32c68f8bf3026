package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/core"
	"github.com/vovakirdan/moonwalk/internal/games/moonwalk"
	"github.com/vovakirdan/moonwalk/internal/storage"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		key    string
		action core.Action
		quit   bool
	}{
		{" ", core.ActionJump, false},
		{"w", core.ActionJump, false},
		{"up", core.ActionJump, false},
		{"a", core.ActionTiltLeft, false},
		{"left", core.ActionTiltLeft, false},
		{"d", core.ActionTiltRight, false},
		{"right", core.ActionTiltRight, false},
		{"q", core.ActionQuit, true},
		{"ctrl+c", core.ActionQuit, true},
		{"x", core.ActionNone, false},
	}

	for _, tc := range tests {
		action, quit := km.MapKey(keyMsg(tc.key))
		if action != tc.action || quit != tc.quit {
			t.Errorf("MapKey(%q) = (%v, %v), expected (%v, %v)", tc.key, action, quit, tc.action, tc.quit)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		key    string
		action MenuAction
	}{
		{"up", MenuActionUp},
		{"k", MenuActionUp},
		{"down", MenuActionDown},
		{"j", MenuActionDown},
		{"enter", MenuActionSelect},
		{"esc", MenuActionBack},
		{"tab", MenuActionScoreboard},
		{"q", MenuActionQuit},
		{"x", MenuActionNone},
	}

	for _, tc := range tests {
		if got := km.MapKeyToMenuAction(keyMsg(tc.key)); got != tc.action {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tc.key, got, tc.action)
		}
	}
}

func TestKeyboardTiltRaw(t *testing.T) {
	t0 := time.Unix(1000, 0)

	tests := []struct {
		name  string
		left  time.Duration // press offset, <0 = not pressed
		right time.Duration
		at    time.Duration
		want  float64
	}{
		{"level", -1, -1, 0, 0},
		{"left held", 0, -1, 100 * time.Millisecond, 1},
		{"right held", -1, 0, 100 * time.Millisecond, -1},
		{"both held", 0, 0, 100 * time.Millisecond, 0},
		{"left expired", 0, -1, keyHold, 0},
		{"right refreshed", -1, 300 * time.Millisecond, 400 * time.Millisecond, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var k keyboardTilt
			if tc.left >= 0 {
				k.Press(core.ActionTiltLeft, t0.Add(tc.left))
			}
			if tc.right >= 0 {
				k.Press(core.ActionTiltRight, t0.Add(tc.right))
			}
			if got := k.Raw(t0.Add(tc.at)); got != tc.want {
				t.Errorf("Raw = %v, expected %v", got, tc.want)
			}
		})
	}
}

type recordingPlayer struct {
	played []cue
}

func (r *recordingPlayer) Play(id moonwalk.SoundID, wait bool) {
	r.played = append(r.played, cue{id: id, wait: wait})
}

func TestCueQueueDrain(t *testing.T) {
	q := &cueQueue{}
	out := &recordingPlayer{}

	if cmds := q.drain(out); cmds != nil {
		t.Fatalf("empty queue produced %d commands", len(cmds))
	}

	q.Play(moonwalk.SoundJump, false)
	q.Play(moonwalk.SoundGameOver, true)

	cmds := q.drain(out)
	if len(cmds) != 2 {
		t.Fatalf("drain returned %d commands, expected 2", len(cmds))
	}
	if len(out.played) != 0 {
		t.Fatal("cues played before their commands ran")
	}
	for _, cmd := range cmds {
		cmd()
	}

	want := []cue{{moonwalk.SoundJump, false}, {moonwalk.SoundGameOver, true}}
	if len(out.played) != len(want) {
		t.Fatalf("played %d cues, expected %d", len(out.played), len(want))
	}
	for i := range want {
		if out.played[i] != want[i] {
			t.Errorf("cue %d = %+v, expected %+v", i, out.played[i], want[i])
		}
	}
	if len(q.pending) != 0 {
		t.Errorf("queue kept %d cues after drain", len(q.pending))
	}
}

func newTestModel(t *testing.T, store storage.Backend) (Model, *moonwalk.TiltFilter) {
	t.Helper()
	tilt := moonwalk.NewTiltFilter()
	m := NewModel(Options{
		Config:       config.DefaultMoonWalkConfig(),
		Runtime:      core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1},
		Store:        store,
		Tilt:         tilt,
		ExternalTilt: true,
	})
	m.Init()
	return m, tilt
}

// tickUntilReset feeds ticks 1/60 s apart until the first game over.
func tickUntilReset(t *testing.T, m Model, maxTicks int) Model {
	t.Helper()
	t0 := time.Unix(1000, 0)
	for i := 0; i < maxTicks; i++ {
		next, _ := m.Update(TickMsg(t0.Add(time.Duration(i) * time.Second / 60)))
		m = next.(Model)
		if m.gameState.Resets > 0 {
			return m
		}
	}
	t.Fatalf("no game over within %d ticks", maxTicks)
	return m
}

func TestModelSavesRunOnGameOver(t *testing.T) {
	store := storage.NewMemory()
	m, tilt := newTestModel(t, store)

	// Hard right lean: 50 points of drift per tick.
	tilt.Set(10)
	m = tickUntilReset(t, m, 200)

	high, err := store.HighScore(moonwalk.HighScoreKey)
	if err != nil {
		t.Fatalf("HighScore failed: %v", err)
	}
	if high <= 0 {
		t.Fatalf("high score = %d, expected a positive score", high)
	}

	runs, err := store.TopScores(m.Game().ID(), 10)
	if err != nil {
		t.Fatalf("TopScores failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("saved %d runs, expected 1", len(runs))
	}
	if runs[0].Score != high {
		t.Errorf("saved run score = %d, expected %d", runs[0].Score, high)
	}
	if m.runs != 1 {
		t.Errorf("runs = %d, expected 1", m.runs)
	}
	if m.gameState.Score != 0 || !m.gameState.Overlay {
		t.Errorf("state after game over = %+v, expected score 0 with overlay", m.gameState)
	}
}

func TestModelWithoutStore(t *testing.T) {
	m, tilt := newTestModel(t, nil)
	tilt.Set(-10)
	m = tickUntilReset(t, m, 200)
	if m.runs != 0 {
		t.Errorf("runs = %d without a store, expected 0", m.runs)
	}
}

func TestModelKeys(t *testing.T) {
	m, _ := newTestModel(t, nil)

	next, _ := m.Update(keyMsg(" "))
	m = next.(Model)
	next, _ = m.Update(JumpMsg{})
	m = next.(Model)
	if m.inputFrame.Jumps != 2 {
		t.Errorf("Jumps = %d, expected 2", m.inputFrame.Jumps)
	}

	next, cmd := m.Update(keyMsg("esc"))
	m = next.(Model)
	if !m.BackToMenu() || m.IsQuitting() || cmd == nil {
		t.Errorf("esc: back=%v quit=%v cmd=%v", m.BackToMenu(), m.IsQuitting(), cmd != nil)
	}
	if m.View() != "" {
		t.Error("View after leaving should be empty")
	}

	m, _ = newTestModel(t, nil)
	next, _ = m.Update(keyMsg("q"))
	if !next.(Model).IsQuitting() {
		t.Error("q should quit")
	}
}

func TestModelKeyboardTiltIgnoredWithExternalTilt(t *testing.T) {
	m, tilt := newTestModel(t, nil)
	tilt.Set(0.75)

	next, _ := m.Update(keyMsg("right"))
	m = next.(Model)
	_, cmd := m.Update(tiltSampleMsg(time.Now()))

	if tilt.Value() != 0.75 {
		t.Errorf("tilt = %v, expected the phone value to stay", tilt.Value())
	}
	if cmd != nil {
		t.Error("keyboard sampler should not re-arm with an external tilt")
	}
}

func TestModelResizeKeepsWorld(t *testing.T) {
	m, _ := newTestModel(t, nil)
	w, h := m.Game().WorldSize()

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	if m.screen.Width() != 120 || m.screen.Height() != 39 {
		t.Errorf("screen = %dx%d, expected 120x39", m.screen.Width(), m.screen.Height())
	}
	if gw, gh := m.Game().WorldSize(); gw != w || gh != h {
		t.Errorf("world resized to %vx%v, expected %vx%v", gw, gh, w, h)
	}
}

func TestModelKeyboardTiltSample(t *testing.T) {
	m := NewModel(Options{Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1}})
	m.Init()

	now := time.Now()
	m.keys.Press(core.ActionTiltRight, now)
	next, cmd := m.Update(tiltSampleMsg(now))
	m = next.(Model)

	// A right lean reads -1 raw, which the filter flips to +1.
	if got := m.tilt.Value(); got != 1 {
		t.Errorf("tilt = %v, expected 1", got)
	}
	if cmd == nil {
		t.Error("keyboard sampler should re-arm")
	}
}
