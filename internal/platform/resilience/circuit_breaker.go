package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker guards calls to one upstream. It opens after
// FailureThreshold consecutive counted failures, rejects calls for
// OpenTimeout, then admits up to HalfOpenMaxReq probes. The circuit closes
// once that many probes succeed; any failed probe reopens it.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu        sync.Mutex
	state     CircuitState
	failures  int
	openUntil time.Time
	probes    int
	passed    int

	now          func() time.Time
	onTransition func(from, to CircuitState)
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   cfg.withDefaults(),
		state: CircuitStateClosed,
		now:   time.Now,
	}
}

// OnTransition registers fn to be called, under the breaker lock, on every
// state change. fn must not call back into the breaker.
func (b *CircuitBreaker) OnTransition(fn func(from, to CircuitState)) {
	b.mu.Lock()
	b.onTransition = fn
	b.mu.Unlock()
}

// Do runs fn if the circuit admits it. counts reports which errors are
// upstream failures; errors it rejects pass through without touching the
// breaker. A nil counts treats every error as a failure. A disabled breaker
// always runs fn.
func (b *CircuitBreaker) Do(fn func() error, counts func(error) bool) error {
	if !b.cfg.Enabled {
		return fn()
	}
	probe, err := b.admit()
	if err != nil {
		return err
	}

	err = fn()
	failed := err != nil && (counts == nil || counts(err))
	b.settle(probe, failed)
	return err
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && !b.now().Before(b.openUntil) {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) admit() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateOpen:
		if b.now().Before(b.openUntil) {
			return false, ErrCircuitOpen
		}
		b.moveTo(CircuitStateHalfOpen)
		fallthrough
	case CircuitStateHalfOpen:
		if b.probes+b.passed >= b.cfg.HalfOpenMaxReq {
			return false, ErrCircuitOpen
		}
		b.probes++
		return true, nil
	default:
		return false, nil
	}
}

func (b *CircuitBreaker) settle(probe, failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if probe {
		// A probe admitted before a concurrent probe reopened the circuit.
		if b.state != CircuitStateHalfOpen {
			return
		}
		b.probes--
		if failed {
			b.moveTo(CircuitStateOpen)
			return
		}
		b.passed++
		if b.passed >= b.cfg.HalfOpenMaxReq {
			b.moveTo(CircuitStateClosed)
		}
		return
	}

	if b.state != CircuitStateClosed {
		return
	}
	if !failed {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.cfg.FailureThreshold {
		b.moveTo(CircuitStateOpen)
	}
}

func (b *CircuitBreaker) moveTo(next CircuitState) {
	prev := b.state
	b.state = next
	b.failures = 0
	b.probes = 0
	b.passed = 0
	if next == CircuitStateOpen {
		b.openUntil = b.now().Add(b.cfg.OpenTimeout)
	}
	if b.onTransition != nil && prev != next {
		b.onTransition(prev, next)
	}
}
