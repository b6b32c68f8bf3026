package moonwalk

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/moonwalk/internal/config"
)

// activeObstacle ties an obstacle record to its body and expiry timer.
type activeObstacle struct {
	Obstacle
	body   *Body
	expiry TimerID
}

// SpawnScheduler drives the obstacle cadence on a Scheduler: after the
// initial delay it spawns one obstacle per interval and retires each one
// after its lifetime.
type SpawnScheduler struct {
	cfg         config.ObstacleConfig
	sched       *Scheduler
	world       *PhysicsWorld
	factory     *ObstacleFactory
	rng         RandomSource
	worldWidth  float64
	groundLevel float64
	logger      *log.Logger

	cadence   TimerID
	running   bool
	obstacles []*activeObstacle
	spawned   int
	skipped   int
}

// NewSpawnScheduler wires a spawner to the given scheduler and world.
func NewSpawnScheduler(
	cfg config.ObstacleConfig,
	sched *Scheduler,
	world *PhysicsWorld,
	rng RandomSource,
	worldWidth, groundLevel float64,
	logger *log.Logger,
) *SpawnScheduler {
	return &SpawnScheduler{
		cfg:         cfg,
		sched:       sched,
		world:       world,
		factory:     NewObstacleFactory(rng, cfg.SpeedMin, cfg.SpeedRange),
		rng:         rng,
		worldWidth:  worldWidth,
		groundLevel: groundLevel,
		logger:      logger,
	}
}

// Start arms the cadence: first spawn at now+SpawnDelay, then every
// SpawnInterval.
func (s *SpawnScheduler) Start(now float64) {
	if s.running {
		return
	}
	s.running = true
	s.cadence = s.sched.Every(now, s.cfg.SpawnDelay, s.cfg.SpawnInterval, s.spawn)
}

// Stop cancels the cadence and every pending expiry. Obstacles already in
// the world stay there.
func (s *SpawnScheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.sched.Cancel(s.cadence)
	for _, o := range s.obstacles {
		s.sched.Cancel(o.expiry)
	}
}

// Running reports whether the cadence is armed.
func (s *SpawnScheduler) Running() bool {
	return s.running
}

// spawn runs one cadence step.
func (s *SpawnScheduler) spawn(now float64) {
	size := SizeClass(s.rng.Intn(3))
	band := HeightBand(s.rng.Intn(3))
	s.spawnObstacle(now, size, band)
}

func (s *SpawnScheduler) spawnObstacle(now float64, size SizeClass, band HeightBand) *activeObstacle {
	ob, err := s.factory.Create(size, band, s.worldWidth, s.groundLevel)
	if err != nil {
		s.skipped++
		s.logger.Debug("obstacle skipped", "size", size, "band", band, "err", err)
		return nil
	}
	ob.SpawnedAt = now

	body := &Body{
		Name:        "obstacle",
		Box:         ob.Bounds(),
		Velocity:    ob.Velocity,
		Mass:        ob.Width * ob.Height * obstacleDensity,
		Friction:    s.cfg.Friction,
		Category:    CategoryWall,
		CollideWith: CategoryPlayer | CategoryGround,
		ContactWith: CategoryPlayer | CategoryGround,
		Gravity:     true,
		Dynamic:     true,
	}
	active := &activeObstacle{Obstacle: ob, body: body}
	body.Data = active

	s.world.Add(body)
	s.obstacles = append(s.obstacles, active)
	s.spawned++

	if ob.Position.X < 0 {
		s.remove(active)
		return nil
	}

	active.expiry = s.sched.After(now, s.cfg.Lifetime, func(float64) {
		s.remove(active)
	})
	return active
}

// Prune drops obstacles whose silhouette has left the world on the left.
func (s *SpawnScheduler) Prune() int {
	n := 0
	for _, o := range append([]*activeObstacle(nil), s.obstacles...) {
		if o.body.Box.Right() < 0 {
			s.remove(o)
			n++
		}
	}
	return n
}

// Sync copies body positions and velocities back into the obstacle records.
func (s *SpawnScheduler) Sync() {
	for _, o := range s.obstacles {
		o.Position.X = o.body.Box.X + obstaclePathOffset
		o.Position.Y = o.body.Box.Y
		o.Velocity = o.body.Velocity
	}
}

// Clear removes every obstacle and its pending expiry.
func (s *SpawnScheduler) Clear() {
	for _, o := range s.obstacles {
		s.sched.Cancel(o.expiry)
		s.world.Remove(o.body)
	}
	s.obstacles = nil
}

func (s *SpawnScheduler) remove(o *activeObstacle) {
	for i, cur := range s.obstacles {
		if cur == o {
			s.obstacles = append(s.obstacles[:i], s.obstacles[i+1:]...)
			break
		}
	}
	if o.expiry != 0 {
		s.sched.Cancel(o.expiry)
	}
	s.world.Remove(o.body)
}

// Obstacles returns a snapshot of the live obstacles.
func (s *SpawnScheduler) Obstacles() []Obstacle {
	out := make([]Obstacle, len(s.obstacles))
	for i, o := range s.obstacles {
		out[i] = o.Obstacle
	}
	return out
}

// Skipped returns how many spawns were dropped for invalid geometry.
func (s *SpawnScheduler) Skipped() int {
	return s.skipped
}

// Spawned returns how many obstacles were added since creation.
func (s *SpawnScheduler) Spawned() int {
	return s.spawned
}
