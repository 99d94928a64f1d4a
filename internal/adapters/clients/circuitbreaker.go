package clients

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen/go-invocation-service/internal/platform/config"
)

// State is the circuit state of one remote service.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota

	// StateOpen rejects calls with ErrCircuitOpen until the open timeout passes.
	StateOpen

	// StateHalfOpen lets a limited number of trial calls through.
	StateHalfOpen
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Outcome is how a finished call affects the circuit.
type Outcome int

const (
	// OutcomeSuccess means the remote answered on purpose, including 4xx and
	// 508 Loop Detected.
	OutcomeSuccess Outcome = iota

	// OutcomeFailure means the remote is unhealthy: a transport error or a 5xx.
	OutcomeFailure

	// OutcomeIgnored means the caller gave up first. It says nothing about the
	// remote.
	OutcomeIgnored
)

// Classify maps the result of one call to its Outcome.
//
// 508 comes from the remote's depth check and describes the invocation chain,
// so it never trips the circuit. A canceled caller context is ignored for the
// same reason; a deadline from the client's own timeout still counts.
func Classify(status int, err error) Outcome {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return OutcomeIgnored
		}

		return OutcomeFailure
	}

	if status >= http.StatusInternalServerError && status != http.StatusLoopDetected {
		return OutcomeFailure
	}

	return OutcomeSuccess
}

// Snapshot is a point-in-time view of a CircuitBreaker.
type Snapshot struct {
	State    State
	Failures int

	// OpenUntil is when an open circuit admits its first trial call.
	// Zero unless State is StateOpen.
	OpenUntil time.Time
}

// CircuitBreaker guards calls to one remote service.
//
//   - Closed → Open after MaxFailures consecutive failures
//   - Open → HalfOpen once Timeout has passed since the last failure
//   - HalfOpen → Closed after HalfOpenLimit consecutive successes
//   - HalfOpen → Open on any failure
type CircuitBreaker struct {
	mu          sync.Mutex
	downstream  string
	cfg         config.CircuitBreakerConfig
	state       State
	failures    int
	successes   int
	inFlight    int // trial calls admitted in half-open
	lastFailure time.Time

	onStateChange func(downstream string, from, to State)

	now func() time.Time
}

// NewCircuitBreaker returns a closed breaker for downstream.
func NewCircuitBreaker(downstream string, cfg config.CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		downstream: downstream,
		cfg:        cfg,
		now:        time.Now,
	}
}

// OnStateChange registers fn to run, on its own goroutine, after every
// transition.
func (cb *CircuitBreaker) OnStateChange(fn func(downstream string, from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onStateChange = fn
}

// Allow reports whether a call may proceed. Every call that was allowed must
// be finished with Record.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.lastFailure) < cb.cfg.Timeout {
			return false
		}

		cb.transitionTo(StateHalfOpen)
		cb.inFlight = 1

		return true
	case StateHalfOpen:
		if cb.inFlight >= cb.cfg.HalfOpenLimit {
			return false
		}

		cb.inFlight++

		return true
	default:
		return false
	}
}

// Record finishes an allowed call.
func (cb *CircuitBreaker) Record(outcome Outcome) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen && cb.inFlight > 0 {
		cb.inFlight--
	}

	switch outcome {
	case OutcomeFailure:
		cb.lastFailure = cb.now()

		switch cb.state {
		case StateClosed:
			cb.failures++
			if cb.failures >= cb.cfg.MaxFailures {
				cb.transitionTo(StateOpen)
			}
		case StateHalfOpen:
			cb.transitionTo(StateOpen)
		}
	case OutcomeSuccess:
		switch cb.state {
		case StateClosed:
			cb.failures = 0
		case StateHalfOpen:
			cb.successes++
			if cb.successes >= cb.cfg.HalfOpenLimit {
				cb.transitionTo(StateClosed)
			}
		}
	case OutcomeIgnored:
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// Snapshot returns the current state with its counters.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	s := Snapshot{State: cb.state, Failures: cb.failures}
	if cb.state == StateOpen {
		s.OpenUntil = cb.lastFailure.Add(cb.cfg.Timeout)
	}

	return s
}

// transitionTo must be called with mu held.
func (cb *CircuitBreaker) transitionTo(to State) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to
	cb.failures = 0
	cb.successes = 0

	if to != StateHalfOpen {
		cb.inFlight = 0
	}

	if cb.onStateChange != nil {
		go cb.onStateChange(cb.downstream, from, to)
	}
}
