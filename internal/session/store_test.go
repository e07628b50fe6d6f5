package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore(30 * time.Minute)
	store.SetClock(func() time.Time { return now })

	_, err := store.Get(ctx, 5, "apply")
	require.ErrorIs(t, err, ErrNoSession)

	s := NewSession(5, "apply", now)
	require.NoError(t, store.Put(ctx, s))

	got, err := store.Get(ctx, 5, "apply")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	// Sessions are keyed per kind; the same actor can hold another dialog.
	_, err = store.Get(ctx, 5, "create_event")
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Delete(ctx, 5, "apply"))
	_, err = store.Get(ctx, 5, "apply")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStore_ReplacesPerKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(30 * time.Minute)
	now := time.Now()

	first := NewSession(5, "apply", now)
	second := NewSession(5, "apply", now)
	require.NoError(t, store.Put(ctx, first))
	require.NoError(t, store.Put(ctx, second))

	got, err := store.Get(ctx, 5, "apply")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID, "a new dialog replaces the prior one")
}

func TestMemoryStore_ExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(30 * time.Minute)

	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	current := start
	store.SetClock(func() time.Time { return current })

	s := NewSession(9, "apply", start)
	require.NoError(t, store.Put(ctx, s))

	current = start.Add(29 * time.Minute)
	_, err := store.Get(ctx, 9, "apply")
	require.NoError(t, err, "session inside the TTL stays alive")

	current = start.Add(31 * time.Minute)
	_, err = store.Get(ctx, 9, "apply")
	assert.ErrorIs(t, err, ErrNoSession, "idle session past the TTL is dropped")
}
