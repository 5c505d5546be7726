package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"

	"songfinder/internal/catalog"
	"songfinder/internal/logging"
	"songfinder/internal/metrics"
)

const (
	defaultMaxConcurrent   = 10
	defaultTimeout         = 10 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerCooldown = 30 * time.Second
)

var (
	// ErrQueueFull is returned when every slot is busy and the wait queue is full.
	ErrQueueFull = errors.New("query queue full")
	// ErrCircuitOpen is returned while the database is considered unreachable.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// Limits bounds how many queries reach the database at once.
type Limits struct {
	// MaxConcurrent is the number of queries allowed to run in parallel.
	MaxConcurrent int
	// QueueDepth is how many callers may wait for a slot; 0 fails fast.
	QueueDepth int
	// Timeout applies to waiting plus execution.
	Timeout time.Duration
	// BreakerFailures consecutive failures open the circuit.
	BreakerFailures uint32
	// BreakerCooldown is how long the circuit stays open before probing.
	BreakerCooldown time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.MaxConcurrent <= 0 {
		l.MaxConcurrent = defaultMaxConcurrent
	}
	if l.QueueDepth < 0 {
		l.QueueDepth = 0
	}
	if l.Timeout <= 0 {
		l.Timeout = defaultTimeout
	}
	if l.BreakerFailures == 0 {
		l.BreakerFailures = defaultBreakerFailures
	}
	if l.BreakerCooldown <= 0 {
		l.BreakerCooldown = defaultBreakerCooldown
	}
	return l
}

// Guard admits queries into the database: bounded slots, a bounded wait
// queue, a per-query deadline and a circuit breaker.
type Guard struct {
	name    string
	limits  Limits
	slots   *semaphore.Weighted
	waiting atomic.Int64
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewGuard builds a guard; zero limits take defaults.
func NewGuard(name string, limits Limits) *Guard {
	limits = limits.withDefaults()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	g := &Guard{
		name:   name,
		limits: limits,
		slots:  semaphore.NewWeighted(int64(limits.MaxConcurrent)),
	}
	g.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     limits.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= limits.BreakerFailures
		},
		// A caller giving up says nothing about the database.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return g
}

// Do runs fn once admitted. Any failure, including rejection, wraps
// catalog.ErrQueryFailure.
func (g *Guard) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.limits.Timeout)
	defer cancel()

	if err := g.acquire(ctx, op); err != nil {
		return err
	}
	defer g.slots.Release(1)

	start := time.Now()
	_, err := g.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	duration := time.Since(start)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.QueryRejections.WithLabelValues(op, "circuit_open").Inc()
		return fmt.Errorf("%s: %w: %w", op, catalog.ErrQueryFailure, ErrCircuitOpen)
	}

	metrics.RecordQuery(op, duration, errorType(err))
	logging.DBQuery(ctx, op, duration, err)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, catalog.ErrQueryFailure, err)
	}
	return nil
}

func (g *Guard) acquire(ctx context.Context, op string) error {
	if g.slots.TryAcquire(1) {
		return nil
	}

	if g.waiting.Add(1) > int64(g.limits.QueueDepth) {
		g.waiting.Add(-1)
		metrics.QueryRejections.WithLabelValues(op, "queue_full").Inc()
		return fmt.Errorf("%s: %w: %w", op, catalog.ErrQueryFailure, ErrQueueFull)
	}
	metrics.QueryQueueDepth.Inc()
	defer func() {
		g.waiting.Add(-1)
		metrics.QueryQueueDepth.Dec()
	}()

	if err := g.slots.Acquire(ctx, 1); err != nil {
		metrics.QueryRejections.WithLabelValues(op, "wait_timeout").Inc()
		return fmt.Errorf("%s: %w: waiting for connection: %w", op, catalog.ErrQueryFailure, err)
	}
	return nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
