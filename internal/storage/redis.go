package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisPrefix  = "moonwalk:"
	redisTimeout = 3 * time.Second
)

// Redis keeps the high score in plain string keys and each game's history
// in a sorted set scored by run score. Members are "<id>:<unix nanos>".
type Redis struct {
	rdb *redis.Client
}

var _ Backend = (*Redis)(nil)

// Connect establishes a connection to Redis and verifies it with PING.
func Connect(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("storage: invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: cannot reach redis: %w", err)
	}

	return client, nil
}

// OpenRedis connects to redisURL.
func OpenRedis(redisURL string) (*Redis, error) {
	client, err := Connect(redisURL)
	if err != nil {
		return nil, err
	}
	return NewRedis(client), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{rdb: client}
}

// HighScore returns the integer stored under key, or 0 if it was never set.
func (r *Redis) HighScore(key string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	v, err := r.rdb.Get(ctx, redisPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return v, nil
}

func (r *Redis) SetHighScore(key string, value int) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := r.rdb.Set(ctx, redisPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("storage: cannot save %s: %w", key, err)
	}
	return nil
}

func (r *Redis) SaveScore(gameID string, score int) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	id, err := r.rdb.Incr(ctx, r.seqKey(gameID)).Result()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot allocate score id: %w", err)
	}
	member := fmt.Sprintf("%d:%d", id, time.Now().UnixNano())
	if err := r.rdb.ZAdd(ctx, r.scoresKey(gameID), redis.Z{Score: float64(score), Member: member}).Err(); err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	return id, nil
}

func (r *Redis) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	zs, err := r.rdb.ZRevRangeWithScores(ctx, r.scoresKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}

	entries := make([]ScoreEntry, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		e, ok := parseRedisMember(member)
		if !ok {
			continue
		}
		e.GameID = gameID
		e.Score = int(z.Score)
		entries = append(entries, e)
	}
	sortScores(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *Redis) ClearScores(gameID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := r.rdb.Del(ctx, r.scoresKey(gameID)).Err(); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

func (r *Redis) scoresKey(gameID string) string {
	return redisPrefix + "scores:" + gameID
}

func (r *Redis) seqKey(gameID string) string {
	return redisPrefix + "scores:" + gameID + ":seq"
}

func parseRedisMember(member string) (ScoreEntry, bool) {
	idPart, atPart, ok := strings.Cut(member, ":")
	if !ok {
		return ScoreEntry{}, false
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return ScoreEntry{}, false
	}
	nanos, err := strconv.ParseInt(atPart, 10, 64)
	if err != nil {
		return ScoreEntry{}, false
	}
	return ScoreEntry{ID: id, CreatedAt: time.Unix(0, nanos)}, true
}
