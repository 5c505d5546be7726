package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"songfinder/internal/catalog"
)

// holdSlot occupies one slot until the returned func is called.
func holdSlot(t *testing.T, g *Guard) func() {
	t.Helper()
	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = g.Do(context.Background(), "hold", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	return func() {
		close(release)
		wg.Wait()
	}
}

func TestGuardRunsQuery(t *testing.T) {
	g := NewGuard("guard-test", Limits{})
	called := false

	err := g.Do(context.Background(), "op", func(context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	require.True(t, called)
}

func TestGuardRejectsWhenQueueFull(t *testing.T) {
	g := NewGuard("guard-test", Limits{MaxConcurrent: 1, QueueDepth: 0})
	release := holdSlot(t, g)
	defer release()

	err := g.Do(context.Background(), "op", func(context.Context) error {
		t.Fatal("query must not run")
		return nil
	})

	require.ErrorIs(t, err, catalog.ErrQueryFailure)
	require.ErrorIs(t, err, ErrQueueFull)
}

func TestGuardQueuedCallerTimesOut(t *testing.T) {
	g := NewGuard("guard-test", Limits{MaxConcurrent: 1, QueueDepth: 1, Timeout: 30 * time.Millisecond})
	release := holdSlot(t, g)
	defer release()

	err := g.Do(context.Background(), "op", func(context.Context) error { return nil })

	require.ErrorIs(t, err, catalog.ErrQueryFailure)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Zero(t, g.waiting.Load())
}

func TestGuardQueuedCallerRunsOnceSlotFrees(t *testing.T) {
	g := NewGuard("guard-test", Limits{MaxConcurrent: 1, QueueDepth: 1, Timeout: time.Second})
	release := holdSlot(t, g)

	done := make(chan error, 1)
	go func() {
		done <- g.Do(context.Background(), "op", func(context.Context) error { return nil })
	}()

	require.Eventually(t, func() bool { return g.waiting.Load() == 1 }, time.Second, time.Millisecond)
	release()
	require.NoError(t, <-done)
}

func TestGuardQueryTimeout(t *testing.T) {
	g := NewGuard("guard-test", Limits{Timeout: 20 * time.Millisecond})

	err := g.Do(context.Background(), "op", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	require.ErrorIs(t, err, catalog.ErrQueryFailure)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGuardOpensCircuitAfterConsecutiveFailures(t *testing.T) {
	g := NewGuard("guard-test", Limits{BreakerFailures: 2, BreakerCooldown: time.Minute})
	down := errors.New("down")

	for i := 0; i < 2; i++ {
		err := g.Do(context.Background(), "op", func(context.Context) error { return down })
		require.ErrorIs(t, err, down)
	}

	calls := 0
	err := g.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return nil
	})

	require.Equal(t, 0, calls)
	require.ErrorIs(t, err, ErrCircuitOpen)
	require.ErrorIs(t, err, catalog.ErrQueryFailure)
}

func TestGuardIgnoresCallerCancellation(t *testing.T) {
	g := NewGuard("guard-test", Limits{BreakerFailures: 1, BreakerCooldown: time.Minute})

	err := g.Do(context.Background(), "op", func(context.Context) error { return context.Canceled })
	require.ErrorIs(t, err, context.Canceled)

	require.NoError(t, g.Do(context.Background(), "op", func(context.Context) error { return nil }))
}
