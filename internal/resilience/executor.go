package resilience

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrorClassifier reports whether err counts against the breaker.
// Caller mistakes (rejected queries, cancellations) should not trip it.
type ErrorClassifier func(err error) (recordFailure bool)

// Executor runs store calls through named circuit breakers. It never retries.
type Executor struct {
	cfg    Config
	logger *zap.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[struct{}]
}

// NewExecutor creates an executor; a nil logger discards state-change logs.
func NewExecutor(cfg Config, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		cfg:      cfg.normalize(),
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker[struct{}]),
	}
}

// Execute calls fn once, guarded by the breaker for operation.
func (e *Executor) Execute(
	ctx context.Context,
	operation string,
	fn func(context.Context) error,
	classifier ErrorClassifier,
) error {
	if fn == nil {
		return fmt.Errorf("resilience: operation callback is nil")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if classifier == nil {
		classifier = defaultClassifier
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if !e.cfg.Enabled {
		return fn(ctx)
	}

	_, err := e.circuitBreaker(op, classifier).Execute(func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// State returns the breaker state for operation; closed when never used.
func (e *Executor) State(operation string) gobreaker.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.breakers[operation]; ok {
		return b.State()
	}
	return gobreaker.StateClosed
}

// OpenCircuits lists operations whose breaker is currently open, sorted.
func (e *Executor) OpenCircuits() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var open []string
	for op, b := range e.breakers {
		if b.State() == gobreaker.StateOpen {
			open = append(open, op)
		}
	}
	sort.Strings(open)
	return open
}

func (e *Executor) circuitBreaker(operation string, classifier ErrorClassifier) *gobreaker.CircuitBreaker[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, ok := e.breakers[operation]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.cfg.HalfOpenMaxCalls,
		Interval:    e.cfg.Interval,
		Timeout:     e.cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= e.cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !classifier(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			e.logger.Warn("circuit_breaker_state_change",
				zap.String("operation", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	breaker := gobreaker.NewCircuitBreaker[struct{}](settings)
	e.breakers[operation] = breaker
	return breaker
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func defaultClassifier(err error) bool {
	return !errors.Is(err, context.Canceled)
}
