// Package storage persists the MoonWalk high score and the run history.
//
// Four backends share one interface: SQLite (the default, pure-Go
// modernc.org/sqlite driver, no CGO), gdata (per-user save data for the
// desktop build), Redis (one high score shared between servers) and an
// in-memory map.
package storage

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTopLimit is used when TopScores is asked for a non-positive limit.
const DefaultTopLimit = 10

// ErrNotFound is returned by backend lookups for a key that was never set.
var ErrNotFound = errors.New("storage: not found")

// ErrUnknownBackend is returned by OpenBackend for an unsupported kind.
var ErrUnknownBackend = errors.New("storage: unknown backend")

// ScoreEntry represents a single run in the score history.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// Backend is what the binaries need from a store: the named high score
// slot read and written by the game, plus the per-run history shown by the
// scores and scoreboard commands.
type Backend interface {
	HighScore(key string) (int, error)
	SetHighScore(key string, value int) error
	SaveScore(gameID string, score int) (int64, error)
	TopScores(gameID string, limit int) ([]ScoreEntry, error)
	ClearScores(gameID string) error
	Close() error
}

// Backend kinds accepted by OpenBackend.
const (
	KindSQLite = "sqlite"
	KindMemory = "memory"
	KindGdata  = "gdata"
	KindRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Kind     string
	Path     string // SQLite database file
	AppName  string // gdata application name
	RedisURL string
}

// OpenBackend opens the backend named by opts.Kind. An empty kind means SQLite.
func OpenBackend(opts Options) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch opts.Kind {
	case "", KindSQLite:
		b, err = Open(opts.Path)
	case KindMemory:
		b = NewMemory()
	case KindGdata:
		b, err = OpenGdata(opts.AppName)
	case KindRedis:
		b, err = OpenRedis(opts.RedisURL)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Kind)
	}
	// Keep a failed open from leaking a typed nil into the interface.
	if err != nil {
		return nil, err
	}
	return b, nil
}
