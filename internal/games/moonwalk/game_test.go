package moonwalk

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/core"
)

type fakeStore struct {
	values  map[string]int
	sets    int
	readErr error
}

func newFakeStore(high int) *fakeStore {
	return &fakeStore{values: map[string]int{HighScoreKey: high}}
}

func (s *fakeStore) HighScore(key string) (int, error) {
	if s.readErr != nil {
		return 0, s.readErr
	}
	return s.values[key], nil
}

func (s *fakeStore) SetHighScore(key string, v int) error {
	s.sets++
	s.values[key] = v
	return nil
}

type playedCue struct {
	id   SoundID
	wait bool
}

type fakeAudio struct {
	played []playedCue
}

func (a *fakeAudio) Play(id SoundID, wait bool) {
	a.played = append(a.played, playedCue{id, wait})
}

// tiltAt returns a tilt for each successive read.
type tiltAt func(read int) float64

type scriptedTilt struct {
	fn    tiltAt
	reads int
}

func (s *scriptedTilt) Value() float64 {
	s.reads++
	return s.fn(s.reads)
}

func testConfig(width float64) config.MoonWalkConfig {
	cfg := config.DefaultMoonWalkConfig()
	cfg.World.Width = width
	return cfg
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}
}

func frame(dt float64) core.InputFrame {
	in := core.NewInputFrame()
	in.DT = dt
	return in
}

func TestScoreCountsTicks(t *testing.T) {
	g := New(WithConfig(testConfig(667)))
	g.Reset(testRuntime())

	for i := 1; i <= 200; i++ {
		res := g.Step(frame(testDT))
		if res.GameOver {
			t.Fatalf("unexpected game over at tick %d", i)
		}
		if res.State.Score != i {
			t.Fatalf("tick %d: score = %d", i, res.State.Score)
		}
	}
}

func TestGameOverResetsScore(t *testing.T) {
	tilt := &scriptedTilt{fn: func(read int) float64 {
		if read == 10 {
			return 200
		}
		return 0
	}}
	g := New(WithConfig(testConfig(400)), WithTilt(tilt))
	g.Reset(testRuntime())

	var res core.StepResult
	for i := 0; i < 10; i++ {
		res = g.Step(frame(testDT))
	}
	if !res.GameOver || res.FinalScore != 10 {
		t.Fatalf("expected game over with final score 10, got %+v", res)
	}
	if res.State.Score != 0 {
		t.Errorf("score after game over = %d, expected 0", res.State.Score)
	}
	if x := g.Player().Position().X; x != 60 {
		t.Errorf("player not rebuilt at start, x = %v", x)
	}

	res = g.Step(frame(testDT))
	if res.State.Score != 1 {
		t.Errorf("score on the next tick = %d, expected 1", res.State.Score)
	}
}

func TestHighScorePersistence(t *testing.T) {
	tests := []struct {
		name     string
		stored   int
		final    int
		expected int
		writes   int
	}{
		{"new best", 30, 47, 47, 1},
		{"below best", 30, 12, 30, 0},
		{"equal to best", 30, 30, 30, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore(tc.stored)
			tilt := &scriptedTilt{fn: func(read int) float64 {
				if read == tc.final {
					return -100
				}
				return 0
			}}
			g := New(WithConfig(testConfig(400)), WithStore(store), WithTilt(tilt))
			g.Reset(testRuntime())
			if g.State().HighScore != tc.stored {
				t.Fatalf("HighScore after Reset = %d, expected %d", g.State().HighScore, tc.stored)
			}

			var res core.StepResult
			for i := 0; i < tc.final; i++ {
				res = g.Step(frame(testDT))
			}
			if !res.GameOver || res.FinalScore != tc.final {
				t.Fatalf("expected game over with %d, got %+v", tc.final, res)
			}
			if store.values[HighScoreKey] != tc.expected {
				t.Errorf("stored = %d, expected %d", store.values[HighScoreKey], tc.expected)
			}
			if store.sets != tc.writes {
				t.Errorf("store written %d times, expected %d", store.sets, tc.writes)
			}
			if res.State.HighScore != tc.expected {
				t.Errorf("reloaded high score = %d, expected %d", res.State.HighScore, tc.expected)
			}
		})
	}
}

func TestOutOfBoundsBoundary(t *testing.T) {
	// worldWidth 400, start x 60, drift gain 5
	tests := []struct {
		name     string
		tilt     float64
		gameOver bool
	}{
		{"right edge exactly", 78, false},              // x = 450
		{"fraction past the right edge", 78.14, false}, // x = 450.7
		{"past the right edge", 78.4, true},            // x = 452
		{"left edge exactly", -22, false},              // x = -50
		{"fraction past the left edge", -22.18, false}, // x = -50.9
		{"past the left edge", -22.4, true},            // x = -52
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tilt := NewTiltFilter()
			tilt.Set(tc.tilt)
			g := New(WithConfig(testConfig(400)), WithTilt(tilt))
			g.Reset(testRuntime())

			res := g.Step(frame(testDT))
			if res.GameOver != tc.gameOver {
				t.Errorf("GameOver = %v, expected %v", res.GameOver, tc.gameOver)
			}
		})
	}
}

func TestOutOfBoundsIsHorizontalOnly(t *testing.T) {
	g := New(WithConfig(testConfig(400)))
	g.Reset(testRuntime())

	if g.outOfBounds(200) {
		t.Error("x inside the screen reported out of bounds")
	}
	g.Player().Body.Box.Y = -5000
	if res := g.Step(frame(testDT)); res.GameOver {
		t.Error("falling below the world must not end the run")
	}
}

// airborne lifts the player above the ground at rest.
func airborne(g *Game, height float64) *PlayerState {
	p := g.Player()
	p.Body.Box.Y = g.cfg.World.GroundLevel + height
	p.Body.Velocity = core.Vec2{}
	return p
}

func TestObstacleLandingRechargesJumps(t *testing.T) {
	for _, start := range []int{0, 1} {
		g := New(WithConfig(testConfig(667)))
		g.Reset(testRuntime())
		g.Step(frame(testDT))

		ground := g.cfg.World.GroundLevel
		p := airborne(g, 300)
		p.JumpsRemaining = start
		// Mid band: spawned 60 points above the ground at the right edge.
		if g.scene.spawner.spawnObstacle(g.Now(), SizeSmall, BandMid) == nil {
			t.Fatal("obstacle not spawned")
		}

		recharged := false
		for i := 0; i < 30 && !recharged; i++ {
			g.Step(frame(testDT))
			if p.JumpsRemaining == MaxJumps {
				recharged = true
				if p.Body.Box.Y <= ground+contactEpsilon {
					t.Fatalf("from %d: player already on the ground", start)
				}
			}
		}
		if !recharged {
			t.Errorf("from %d: JumpsRemaining = %d, expected %d", start, p.JumpsRemaining, MaxJumps)
		}
	}
}

func TestLandingOnObstacleRechargesJumps(t *testing.T) {
	for _, start := range []int{0, 1} {
		g := New(WithConfig(testConfig(667)))
		g.Reset(testRuntime())
		g.Step(frame(testDT))

		ground := g.cfg.World.GroundLevel
		p := airborne(g, 170)
		ob := g.scene.spawner.spawnObstacle(g.Now(), SizeSmall, BandLow)
		if ob == nil {
			t.Fatal("obstacle not spawned")
		}
		ob.body.Box.X = p.Position().X - ob.body.Box.W/2
		ob.body.Box.Y = ground
		ob.body.Velocity = core.Vec2{}
		g.Step(frame(testDT))

		p.JumpsRemaining = start
		top := ob.body.Box.Top()
		for i := 0; i < 60; i++ {
			g.Step(frame(testDT))
		}
		if p.JumpsRemaining != MaxJumps {
			t.Errorf("from %d: JumpsRemaining = %d, expected %d", start, p.JumpsRemaining, MaxJumps)
		}
		if math.Abs(p.Body.Box.Y-top) > 5 {
			t.Errorf("from %d: player bottom %v, expected on the obstacle top %v", start, p.Body.Box.Y, top)
		}
	}
}

func TestTiltDriftEndToEnd(t *testing.T) {
	store := newFakeStore(0)
	audio := &fakeAudio{}
	tilt := NewTiltFilter()
	tilt.Set(2.0)

	g := New(WithConfig(testConfig(400)), WithStore(store), WithAudio(audio), WithTilt(tilt))
	g.Reset(testRuntime())

	var overs []int
	for i := 1; i <= 100; i++ {
		before := g.Player().Position().X
		res := g.Step(frame(testDT))
		if !res.GameOver {
			if dx := g.Player().Position().X - before; math.Abs(dx-10) > 1e-9 {
				t.Fatalf("tick %d: x moved by %v, expected 10", i, dx)
			}
		}
		if res.GameOver {
			overs = append(overs, i)
			if i == 40 && res.FinalScore != 40 {
				t.Errorf("first run ended with %d, expected 40", res.FinalScore)
			}
		}
	}

	// x = 60 + 10k first exceeds 450 at k = 40; the world restarts at x = 60
	// and the held tilt crosses again 40 ticks later.
	if len(overs) != 2 || overs[0] != 40 || overs[1] != 80 {
		t.Fatalf("game overs at ticks %v, expected [40 80]", overs)
	}
	if store.values[HighScoreKey] != 40 || store.sets != 1 {
		t.Errorf("high score = %d after %d writes, expected 40 after 1", store.values[HighScoreKey], store.sets)
	}
	if st := g.State(); st.Score != 20 || st.Resets != 2 || st.HighScore != 40 {
		t.Errorf("final state %+v", st)
	}

	overCues := 0
	for _, c := range audio.played {
		if c.id == SoundGameOver {
			overCues++
			if !c.wait {
				t.Error("game-over cue should wait for completion")
			}
		}
	}
	if overCues != 2 {
		t.Errorf("game-over cue played %d times, expected 2", overCues)
	}
}

func TestOverlayLifetime(t *testing.T) {
	cfg := testConfig(400)
	cfg.World.MaxFrameDelta = 0.125
	cfg.Obstacles.SpawnDelay = 100

	tilt := &scriptedTilt{fn: func(read int) float64 {
		if read == 1 {
			return 100
		}
		return 0
	}}
	g := New(WithConfig(cfg), WithTilt(tilt))
	g.Reset(testRuntime())

	if res := g.Step(frame(0.125)); !res.GameOver || !res.State.Overlay {
		t.Fatalf("expected game over with overlay, got %+v", res)
	}
	// Game over at 0.125s, overlay until 6.125s.
	for i := 2; i <= 48; i++ {
		if res := g.Step(frame(0.125)); !res.State.Overlay {
			t.Fatalf("overlay gone early at %.3fs", g.Now())
		}
	}
	if res := g.Step(frame(0.125)); res.State.Overlay {
		t.Errorf("overlay still visible at %.2fs", g.Now())
	}
}

func TestGameSpawnsAfterDelay(t *testing.T) {
	g := New(WithConfig(testConfig(667)))
	g.Reset(testRuntime())

	const dt = 0.0625
	for i := 1; i < 80; i++ {
		g.Step(frame(dt))
	}
	if n := len(g.Obstacles()); n != 0 {
		t.Fatalf("%d obstacles before 5s", n)
	}
	g.Step(frame(dt))
	obs := g.Obstacles()
	if len(obs) != 1 {
		t.Fatalf("expected the first obstacle at 5s, got %d", len(obs))
	}
	if obs[0].Velocity.X < -800 || obs[0].Velocity.X >= -300 {
		t.Errorf("obstacle velocity %v outside the band", obs[0].Velocity.X)
	}
}

func TestJumpRequestsPerFrame(t *testing.T) {
	audio := &fakeAudio{}
	g := New(WithConfig(testConfig(667)), WithAudio(audio))
	g.Reset(testRuntime())
	g.Step(frame(testDT)) // settle on the ground

	in := frame(testDT)
	in.Set(core.ActionJump)
	in.Set(core.ActionJump)
	in.Set(core.ActionJump)
	g.Step(in)

	if g.Player().JumpsRemaining != 0 {
		t.Errorf("JumpsRemaining = %d, expected 0", g.Player().JumpsRemaining)
	}
	if len(audio.played) != 2 {
		t.Fatalf("expected two jump cues, got %d", len(audio.played))
	}
	for _, c := range audio.played {
		if c.id != SoundJump || c.wait {
			t.Errorf("unexpected cue %+v", c)
		}
	}
	if g.Player().Velocity().Y <= 0 {
		t.Error("player should be moving up after jumping")
	}
}

func TestDeltaClamped(t *testing.T) {
	g := New(WithConfig(testConfig(667)))
	g.Reset(testRuntime())

	g.Step(frame(5))
	if g.Now() != 0.1 {
		t.Errorf("Now() = %v, expected the frame clamped to 0.1", g.Now())
	}
	g.Step(frame(0))
	if math.Abs(g.Now()-(0.1+1.0/60)) > 1e-12 {
		t.Errorf("Now() = %v, expected a nominal tick to be added", g.Now())
	}
}

func TestStoreReadFailureDefaultsToZero(t *testing.T) {
	store := newFakeStore(99)
	store.readErr = errors.New("disk gone")

	g := New(WithStore(store))
	g.Reset(testRuntime())
	if g.State().HighScore != 0 {
		t.Errorf("HighScore = %d, expected 0", g.State().HighScore)
	}
}

func TestGameDeterminism(t *testing.T) {
	run := func() (core.GameState, core.Vec2, []Obstacle) {
		g := New(WithConfig(testConfig(667)))
		g.Reset(testRuntime())
		for i := 0; i < 600; i++ {
			in := frame(testDT)
			if i%40 == 0 {
				in.Set(core.ActionJump)
			}
			g.Step(in)
		}
		return g.State(), g.Player().Position(), g.Obstacles()
	}

	s1, p1, o1 := run()
	s2, p2, o2 := run()

	if s1 != s2 {
		t.Errorf("states differ: %+v vs %+v", s1, s2)
	}
	if p1 != p2 {
		t.Errorf("player positions differ: %+v vs %+v", p1, p2)
	}
	if len(o1) != len(o2) {
		t.Fatalf("obstacle counts differ: %d vs %d", len(o1), len(o2))
	}
	for i := range o1 {
		if o1[i] != o2[i] {
			t.Errorf("obstacle %d differs: %+v vs %+v", i, o1[i], o2[i])
		}
	}
}

func TestNodesAndRender(t *testing.T) {
	store := newFakeStore(12)
	g := New(WithConfig(testConfig(667)), WithStore(store))
	g.Reset(testRuntime())
	for i := 0; i < 3; i++ {
		g.Step(frame(testDT))
	}

	nodes := g.Nodes()
	for i := 1; i < len(nodes); i++ {
		if nodes[i].Z < nodes[i-1].Z {
			t.Fatalf("nodes not z-ordered at %d", i)
		}
	}

	var labels []string
	players := 0
	for _, n := range nodes {
		switch n.Kind {
		case NodeLabel:
			labels = append(labels, n.Text)
		case NodePlayer:
			players++
		case NodeOverlay:
			t.Error("overlay visible before any game over")
		}
	}
	if players != 1 {
		t.Errorf("expected one player node, got %d", players)
	}
	joined := strings.Join(labels, "|")
	if !strings.Contains(joined, "Score: 3") || !strings.Contains(joined, "High Score: 12") {
		t.Errorf("labels = %q", joined)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	if !strings.Contains(out, "Score: 3") {
		t.Error("rendered screen is missing the score label")
	}
	if !strings.ContainsRune(out, GroundChar) {
		t.Error("rendered screen is missing the ground")
	}
}

func TestIdentity(t *testing.T) {
	g := New()
	if g.ID() != "moonwalk" || g.Title() != "MoonWalk" {
		t.Errorf("ID/Title = %q/%q", g.ID(), g.Title())
	}
}

func TestAccessorsBeforeReset(t *testing.T) {
	g := New()
	if g.Player() != nil || g.Layers() != nil || g.Obstacles() != nil {
		t.Error("a game without a world should expose no entities")
	}
	g.Step(frame(testDT))
	if g.Player() == nil || len(g.Layers()) == 0 {
		t.Error("the first step should build the world")
	}
}
