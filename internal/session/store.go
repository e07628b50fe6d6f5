package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when no live session exists for the key.
var ErrNoSession = errors.New("no active session")

// Store persists sessions between inbound requests, keyed by
// (actor, conversation kind). Only one session may exist per key;
// Put replaces any prior one. Implementations expire idle sessions
// after the configured TTL.
type Store interface {
	Get(ctx context.Context, actorID int64, kind string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, actorID int64, kind string) error
}

type memKey struct {
	actor int64
	kind  string
}

// MemoryStore keeps sessions in a mutex-protected map. Expiry is lazy:
// a session older than the TTL is dropped on the Get that finds it.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[memKey]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[memKey]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetClock replaces the time source for expiry checks in tests.
func (m *MemoryStore) SetClock(now func() time.Time) { m.now = now }

func (m *MemoryStore) Get(_ context.Context, actorID int64, kind string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memKey{actor: actorID, kind: kind}
	s, ok := m.sessions[k]
	if !ok {
		return nil, ErrNoSession
	}
	if m.now().Sub(s.LastActive) > m.ttl {
		delete(m.sessions, k)
		return nil, ErrNoSession
	}
	return s, nil
}

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[memKey{actor: s.ActorID, kind: s.Kind}] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, actorID int64, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, memKey{actor: actorID, kind: kind})
	return nil
}

// RedisStore keeps sessions as JSON values with a TTL so dialogs survive
// process restarts. Keys are namespaced under "session:".
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(actorID int64, kind string) string {
	return fmt.Sprintf("session:%d:%s", actorID, kind)
}

func (r *RedisStore) Get(ctx context.Context, actorID int64, kind string) (*Session, error) {
	raw, err := r.rdb.Get(ctx, redisKey(actorID, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, redisKey(s.ActorID, s.Kind), raw, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, actorID int64, kind string) error {
	return r.rdb.Del(ctx, redisKey(actorID, kind)).Err()
}
