package storage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// DefaultAppName is the gdata application directory used by the desktop build.
const DefaultAppName = "moonwalk"

const (
	gdataObject       = "moonwalk"
	gdataScoresPrefix = "scores_"
)

// gdataRun is the YAML shape of one history row.
type gdataRun struct {
	ID    int64     `yaml:"id"`
	Score int       `yaml:"score"`
	At    time.Time `yaml:"at"`
}

// Gdata stores values as properties of a single gdata object: one
// property per high score key and one YAML list per game history.
type Gdata struct {
	mu sync.Mutex
	m  *gdata.Manager
}

var _ Backend = (*Gdata)(nil)

// OpenGdata opens the per-user save directory for appName.
func OpenGdata(appName string) (*Gdata, error) {
	if appName == "" {
		appName = DefaultAppName
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open save data: %w", err)
	}
	return &Gdata{m: m}, nil
}

// HighScore returns the integer stored under key, or 0 if it was never set.
func (g *Gdata) HighScore(key string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var v int
	if err := g.load(key, &v); err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return v, nil
}

func (g *Gdata) SetHighScore(key string, value int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.save(key, value)
}

func (g *Gdata) SaveScore(gameID string, score int) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	runs, err := g.runs(gameID)
	if err != nil {
		return 0, err
	}
	id := int64(1)
	for _, r := range runs {
		if r.ID >= id {
			id = r.ID + 1
		}
	}
	runs = append(runs, gdataRun{ID: id, Score: score, At: time.Now().UTC()})
	if err := g.save(gdataScoresPrefix+gameID, runs); err != nil {
		return 0, err
	}
	return id, nil
}

func (g *Gdata) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	g.mu.Lock()
	runs, err := g.runs(gameID)
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}

	entries := make([]ScoreEntry, 0, len(runs))
	for _, r := range runs {
		entries = append(entries, ScoreEntry{ID: r.ID, GameID: gameID, Score: r.Score, CreatedAt: r.At})
	}
	sortScores(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (g *Gdata) ClearScores(gameID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.m.ObjectPropExists(gdataObject, gdataScoresPrefix+gameID) {
		return nil
	}
	return g.save(gdataScoresPrefix+gameID, []gdataRun{})
}

// Close is a no-op; every write is flushed by gdata immediately.
func (g *Gdata) Close() error { return nil }

func (g *Gdata) runs(gameID string) ([]gdataRun, error) {
	var runs []gdataRun
	if err := g.load(gdataScoresPrefix+gameID, &runs); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return runs, nil
}

func (g *Gdata) load(prop string, out any) error {
	if !g.m.ObjectPropExists(gdataObject, prop) {
		return ErrNotFound
	}
	data, err := g.m.LoadObjectProp(gdataObject, prop)
	if err != nil {
		return fmt.Errorf("storage: cannot load %s: %w", prop, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("storage: malformed value for %s: %w", prop, err)
	}
	return nil
}

func (g *Gdata) save(prop string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: cannot encode %s: %w", prop, err)
	}
	if err := g.m.SaveObjectProp(gdataObject, prop, data); err != nil {
		return fmt.Errorf("storage: cannot save %s: %w", prop, err)
	}
	return nil
}
