// Package limiter implements the sliding-window request gate that runs in
// front of every other component. Each actor gets a bounded window of
// request timestamps; filling the window starts a fixed-length ban during
// which every request is denied without consuming further window slots.
package limiter

import (
	"sync"
	"time"

	"github.com/iliyamo/procedure-booking-bot/internal/config"
)

const shardCount = 16

// Decision is the outcome of Admit. RetryAfter is only meaningful on a
// denial and tells the actor when the ban elapses.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// DenyFunc is invoked on every denial so denials can be recorded to an
// audit trail. It runs outside the shard lock and must not block for long.
type DenyFunc func(actorID int64, at time.Time)

type actorState struct {
	hits        []time.Time // request timestamps inside the current window
	bannedUntil time.Time
}

type shard struct {
	mu     sync.Mutex
	actors map[int64]*actorState
}

// Limiter holds per-actor counters behind sharded locks so concurrent
// bursts from different actors do not contend on one mutex.
type Limiter struct {
	cfg    config.RateLimitConfig
	shards [shardCount]*shard
	now    func() time.Time
	onDeny DenyFunc
}

// New returns a Limiter. onDeny may be nil when no audit trail is wired.
func New(cfg config.RateLimitConfig, onDeny DenyFunc) *Limiter {
	l := &Limiter{cfg: cfg, now: time.Now, onDeny: onDeny}
	for i := range l.shards {
		l.shards[i] = &shard{actors: make(map[int64]*actorState)}
	}
	return l
}

// SetClock replaces the time source. Tests use it to step through window
// and ban boundaries deterministically.
func (l *Limiter) SetClock(now func() time.Time) { l.now = now }

// Admit decides whether a request from the actor may proceed. Privileged
// actors bypass the limiter entirely. A denial short-circuits the whole
// pipeline: the caller must not touch any other component afterwards.
func (l *Limiter) Admit(actorID int64, privileged bool) Decision {
	if privileged || !l.cfg.Enabled {
		return Decision{Allowed: true}
	}

	now := l.now()
	sh := l.shards[uint64(actorID)%shardCount]

	sh.mu.Lock()
	st, ok := sh.actors[actorID]
	if !ok {
		st = &actorState{}
		sh.actors[actorID] = st
	}

	// An active ban denies without consuming window slots, and another
	// attempt never extends the ban.
	if st.bannedUntil.After(now) {
		retry := st.bannedUntil.Sub(now)
		sh.mu.Unlock()
		l.deny(actorID, now)
		return Decision{Allowed: false, RetryAfter: retry}
	}

	// Prune timestamps older than the window to bound memory.
	cutoff := now.Add(-l.cfg.Period)
	kept := st.hits[:0]
	for _, t := range st.hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	st.hits = append(kept, now)

	// The request that fills the window is still admitted; the ban starts
	// from its timestamp, so the next attempt is the first denial.
	if len(st.hits) >= l.cfg.MaxRequests {
		st.bannedUntil = now.Add(l.cfg.BanDuration)
		st.hits = nil
	}
	sh.mu.Unlock()
	return Decision{Allowed: true}
}

func (l *Limiter) deny(actorID int64, at time.Time) {
	if l.onDeny != nil {
		l.onDeny(actorID, at)
	}
}
