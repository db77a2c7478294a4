package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dex-voice-agent:history:"

// RedisStore persists transcripts as one Redis list per session, one
// JSON-encoded turn per element. RPush keeps list order equal to insertion
// order, so the list index is the turn's sequence position.
type RedisStore struct {
	rdb    *redis.Client
	window int
	locks  *sessionLocks
}

// RedisOptions is the subset of connection settings the store needs.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection. window caps
// the number of turns retained per session; 0 keeps everything.
func NewRedisStore(cfg RedisOptions, window int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("could not connect to redis at %s: %w", cfg.Addr, err)
	}
	return &RedisStore{rdb: rdb, window: window, locks: newSessionLocks()}, nil
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}

// Append adds a turn at the tail of the session's list, creating the list on
// first use.
func (s *RedisStore) Append(ctx context.Context, sessionID, role, content string) (Turn, error) {
	t := Turn{Role: role, Content: content}
	data, err := json.Marshal(t)
	if err != nil {
		return Turn{}, fmt.Errorf("could not marshal turn: %w", err)
	}
	pipe := s.rdb.Pipeline()
	pipe.RPush(ctx, sessionKey(sessionID), data)
	if s.window > 0 {
		pipe.LTrim(ctx, sessionKey(sessionID), int64(-s.window), -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return Turn{}, fmt.Errorf("could not append turn for session %s: %w", sessionID, err)
	}
	return t, nil
}

// History returns the session's turns in insertion order. An unknown session
// id yields an empty slice; only a backend failure is an error.
func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	vals, err := s.rdb.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("could not load history for session %s: %w", sessionID, err)
	}
	turns := make([]Turn, 0, len(vals))
	for _, v := range vals {
		var t Turn
		if err := json.Unmarshal([]byte(v), &t); err != nil {
			return nil, fmt.Errorf("could not unmarshal turn for session %s: %w", sessionID, err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// WithLock serializes same-session pipelines within this process. Turn order
// across multiple service instances sharing one Redis is not coordinated.
func (s *RedisStore) WithLock(sessionID string, fn func() error) error {
	return s.locks.with(sessionID, fn)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
