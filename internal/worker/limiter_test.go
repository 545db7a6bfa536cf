package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter(t *testing.T) {
	assert.Equal(t, 5, NewLimiter(10, 5).defaultBurst)
	assert.Equal(t, 4, NewLimiter(10, -1).defaultBurst, "default burst")
}

func TestLimiter_PerHost(t *testing.T) {
	l := NewLimiter(100, 1)
	ctx := context.Background()

	for _, ref := range []string{
		"https://claims.example.com/a.txt",
		"https://claims.example.com/b.txt",
		"http://docs.example.org/c.html",
	} {
		require.NoError(t, l.Wait(ctx, ref), ref)
	}

	assert.Equal(t, 2, l.Hosts())
}

func TestLimiter_LocalRefsPassThrough(t *testing.T) {
	l := NewLimiter(0.001, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	for _, ref := range []string{"claims/fnol.txt", "-", "/tmp/a.txt", "/tmp/a.txt"} {
		require.NoError(t, l.Wait(ctx, ref), "local ref %q", ref)
	}
	assert.Zero(t, l.Hosts())
}

func TestLimiter_RateLimit(t *testing.T) {
	l := NewLimiter(1, 1)
	ref := "https://claims.example.com/a.txt"

	require.NoError(t, l.Wait(context.Background(), ref))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, ref), "second wait should exceed the deadline")
}

func TestLimiter_ZeroRateUnlimited(t *testing.T) {
	l := NewLimiter(0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	for i := 0; i < 10; i++ {
		require.NoError(t, l.Wait(ctx, "https://claims.example.com/a.txt"), "wait %d", i)
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(100, 1)

	start := time.Now()
	require.NoError(t, l.WaitWithDelay(context.Background(), "https://claims.example.com", 50*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.WaitWithDelay(ctx, "claims/local.txt", time.Second), "cancelled context should abort the delay")
}
