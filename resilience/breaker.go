package resilience

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/jobharvest"
)

// State is a circuit breaker state.
type State string

// Circuit breaker states.
const (
	StateClosed   State = "closed"    // calls pass through, failures count
	StateOpen     State = "open"      // calls fail fast without invoking the operation
	StateHalfOpen State = "half_open" // one trial call permitted after the reset timeout
)

// Default circuit breaker configuration.
const (
	DefaultFailureThreshold = 5
	DefaultResetTimeout     = 60 * time.Second
)

// CircuitBreaker fails fast after repeated consecutive failures and
// periodically permits a trial call to test recovery. One instance is
// shared process-wide across concurrent work items; all state mutation is
// synchronized, so concurrent callers observe a consistent state machine.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     State
	failures  int
	openedAt  time.Time
	threshold int
	reset     time.Duration
	trial     bool // a half-open trial call is in flight
	logger    *slog.Logger
	now       func() time.Time
}

// BreakerOption configures a CircuitBreaker.
type BreakerOption func(*CircuitBreaker)

// WithFailureThreshold sets the consecutive-failure count that opens the
// circuit. Defaults to 5.
func WithFailureThreshold(n int) BreakerOption {
	return func(cb *CircuitBreaker) {
		cb.threshold = n
	}
}

// WithResetTimeout sets how long the circuit stays open before a trial call
// is permitted. Defaults to 60s.
func WithResetTimeout(d time.Duration) BreakerOption {
	return func(cb *CircuitBreaker) {
		cb.reset = d
	}
}

// WithBreakerLogger sets a logger for state transitions.
func WithBreakerLogger(logger *slog.Logger) BreakerOption {
	return func(cb *CircuitBreaker) {
		cb.logger = logger
	}
}

// WithClock sets the time source. This exists for testing recovery without
// real waits.
func WithClock(now func() time.Time) BreakerOption {
	return func(cb *CircuitBreaker) {
		cb.now = now
	}
}

// NewCircuitBreaker creates a closed CircuitBreaker. Build one at process
// start and pass it by reference into every stage that needs it.
func NewCircuitBreaker(opts ...BreakerOption) *CircuitBreaker {
	cb := &CircuitBreaker{
		state:     StateClosed,
		threshold: DefaultFailureThreshold,
		reset:     DefaultResetTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb
}

// State returns the current state, accounting for an elapsed reset timeout.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.reset {
		return StateHalfOpen
	}
	return cb.state
}

// Do runs op under the breaker. When the circuit is open it returns an
// EUNAVAILABLE error without invoking op. In the half-open state exactly
// one trial call passes through: success closes the circuit and resets the
// failure counter, failure re-opens it.
func (cb *CircuitBreaker) Do(ctx context.Context, op Operation) error {
	if err := cb.admit(); err != nil {
		return err
	}

	err := op(ctx)
	cb.record(err)
	return err
}

// admit decides whether a call may proceed, transitioning OPEN→HALF_OPEN
// once the reset timeout has elapsed.
func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.now().Sub(cb.openedAt) < cb.reset {
			return jobharvest.Errorf(jobharvest.EUNAVAILABLE,
				"circuit breaker is open, failing fast")
		}
		cb.transition(StateHalfOpen)
		cb.trial = false
	}
	if cb.state == StateHalfOpen {
		if cb.trial {
			return jobharvest.Errorf(jobharvest.EUNAVAILABLE,
				"circuit breaker is half-open, trial call in flight")
		}
		cb.trial = true
	}
	return nil
}

// record folds a call outcome into the state machine. The breaker's own
// fast-fail error never counts toward the threshold, so an open breaker
// cannot feed on its own signal.
func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		if cb.state == StateHalfOpen {
			cb.transition(StateClosed)
			cb.trial = false
		}
		cb.failures = 0
		return
	}

	if jobharvest.ErrorCode(err) == jobharvest.EUNAVAILABLE {
		return
	}

	if cb.state == StateHalfOpen {
		cb.trial = false
		cb.open()
		return
	}

	cb.failures++
	if cb.failures >= cb.threshold {
		cb.open()
	}
}

// open transitions to OPEN and stamps the opening time. Must hold mu.
func (cb *CircuitBreaker) open() {
	cb.openedAt = cb.now()
	cb.transition(StateOpen)
}

// transition switches state with logging. Must hold mu.
func (cb *CircuitBreaker) transition(next State) {
	if cb.state == next {
		return
	}
	if cb.logger != nil {
		cb.logger.Warn("circuit breaker state change",
			"from", string(cb.state),
			"to", string(next),
			"failures", cb.failures,
			"threshold", cb.threshold,
		)
	}
	cb.state = next
}

// Policy composes the circuit breaker around the retry policy. The breaker
// is outermost: when the circuit is open no attempt, including retries, is
// made, and all retry attempts of one logical call count as at most one
// failure or success toward the breaker's threshold.
type Policy struct {
	Breaker *CircuitBreaker
	Retry   *Retry
}

// NewPolicy creates a Policy from a shared breaker and a retry policy.
func NewPolicy(breaker *CircuitBreaker, retry *Retry) *Policy {
	return &Policy{Breaker: breaker, Retry: retry}
}

// Do runs op wrapped in retry, wrapped in the circuit breaker.
func (p *Policy) Do(ctx context.Context, op Operation) error {
	return p.Breaker.Do(ctx, func(ctx context.Context) error {
		return p.Retry.Do(ctx, op)
	})
}
