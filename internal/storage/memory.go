package storage

import (
	"sort"
	"sync"
	"time"
)

// Memory is a map-backed backend. Nothing survives Close.
type Memory struct {
	mu     sync.Mutex
	values map[string]int
	scores []ScoreEntry
	nextID int64
}

var _ Backend = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]int)}
}

// HighScore returns the integer stored under key, or 0 if it was never set.
func (m *Memory) HighScore(key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *Memory) SetHighScore(key string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) SaveScore(gameID string, score int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.scores = append(m.scores, ScoreEntry{
		ID:        m.nextID,
		GameID:    gameID,
		Score:     score,
		CreatedAt: time.Now(),
	})
	return m.nextID, nil
}

func (m *Memory) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []ScoreEntry
	for _, e := range m.scores {
		if e.GameID == gameID {
			out = append(out, e)
		}
	}
	sortScores(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) ClearScores(gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.scores[:0]
	for _, e := range m.scores {
		if e.GameID != gameID {
			kept = append(kept, e)
		}
	}
	m.scores = kept
	return nil
}

func (m *Memory) Close() error { return nil }

// sortScores orders entries by score descending, oldest first on ties.
func sortScores(entries []ScoreEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].ID < entries[j].ID
	})
}
