package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/procedure-booking-bot/internal/config"
)

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:     true,
		MaxRequests: 10,
		Period:      time.Minute,
		BanDuration: 5 * time.Minute,
	}
}

// fakeClock steps time manually.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(onDeny DenyFunc) (*Limiter, *fakeClock) {
	l := New(testConfig(), onDeny)
	clk := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l.SetClock(clk.now)
	return l, clk
}

func TestLimiter_BurstOfEleven(t *testing.T) {
	l, clk := newTestLimiter(nil)

	// The first ten requests of a burst are admitted; the tenth fills the
	// window and starts the ban, so the eleventh is the first denial.
	for i := 0; i < 10; i++ {
		dec := l.Admit(42, false)
		require.True(t, dec.Allowed, "request %d should be admitted", i+1)
		clk.advance(time.Second)
	}

	dec := l.Admit(42, false)
	require.False(t, dec.Allowed, "11th request should be denied")

	// The ban started at the 10th request, 1s before this denial.
	assert.Equal(t, 5*time.Minute-time.Second, dec.RetryAfter)
}

func TestLimiter_BanExpires(t *testing.T) {
	l, clk := newTestLimiter(nil)

	for i := 0; i < 10; i++ {
		l.Admit(7, false)
	}
	require.False(t, l.Admit(7, false).Allowed)

	// Repeated attempts during the ban must not extend it.
	clk.advance(time.Minute)
	require.False(t, l.Admit(7, false).Allowed)

	clk.advance(4*time.Minute + time.Second)
	dec := l.Admit(7, false)
	assert.True(t, dec.Allowed, "request after ban expiry should be admitted")
}

func TestLimiter_WindowSlides(t *testing.T) {
	l, clk := newTestLimiter(nil)

	// Nine requests, then enough idle time for them to age out of the
	// window. The next burst starts from a clean slate.
	for i := 0; i < 9; i++ {
		require.True(t, l.Admit(1, false).Allowed)
	}
	clk.advance(61 * time.Second)

	for i := 0; i < 9; i++ {
		assert.True(t, l.Admit(1, false).Allowed, "request %d after idle period", i+1)
	}
}

func TestLimiter_PrivilegedBypass(t *testing.T) {
	l, _ := newTestLimiter(nil)

	for i := 0; i < 100; i++ {
		require.True(t, l.Admit(99, true).Allowed)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	l := New(cfg, nil)

	for i := 0; i < 100; i++ {
		require.True(t, l.Admit(5, false).Allowed)
	}
}

func TestLimiter_ActorsIsolated(t *testing.T) {
	l, _ := newTestLimiter(nil)

	for i := 0; i < 10; i++ {
		l.Admit(1, false)
	}
	require.False(t, l.Admit(1, false).Allowed)

	// A different actor is unaffected by the first actor's ban.
	assert.True(t, l.Admit(2, false).Allowed)
}

func TestLimiter_DenyHook(t *testing.T) {
	var denied []int64
	l, clk := newTestLimiter(func(actorID int64, at time.Time) {
		denied = append(denied, actorID)
	})

	for i := 0; i < 10; i++ {
		l.Admit(3, false)
	}
	require.Empty(t, denied, "admitted requests must not hit the hook")

	l.Admit(3, false)
	l.Admit(3, false)
	assert.Equal(t, []int64{3, 3}, denied, "every denial is reported")

	clk.advance(6 * time.Minute)
	l.Admit(3, false)
	assert.Len(t, denied, 2, "post-ban admission must not hit the hook")
}
