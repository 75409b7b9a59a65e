// Package circuitbreaker gates scheduler API calls per operation after
// repeated transport failures, so a dead scheduler is not hammered on
// every cycle of a bulk run.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

type opState struct {
	state               state
	consecutiveFailures int
	openedAt            time.Time
}

type CircuitBreaker struct {
	mu        sync.Mutex
	states    map[string]*opState
	threshold int
	cooldown  time.Duration
}

func New(threshold int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		states:    make(map[string]*opState),
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// Allow reports whether a call for the operation may proceed. After the
// cooldown, a single probe call is let through (half-open).
func (cb *CircuitBreaker) Allow(op string) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	s, ok := cb.states[op]
	if !ok {
		return nil
	}

	switch s.state {
	case stateClosed:
		return nil
	case stateOpen:
		if time.Since(s.openedAt) >= cb.cooldown {
			s.state = stateHalfOpen
			return nil
		}
		return ErrCircuitOpen
	case stateHalfOpen:
		return ErrCircuitOpen
	default:
		return nil
	}
}

// RecordSuccess closes the circuit for the operation.
func (cb *CircuitBreaker) RecordSuccess(op string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	s, ok := cb.states[op]
	if !ok {
		return
	}
	s.state = stateClosed
	s.consecutiveFailures = 0
}

// RecordFailure counts a transport failure; the circuit opens once the
// threshold of consecutive failures is reached.
func (cb *CircuitBreaker) RecordFailure(op string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	s, ok := cb.states[op]
	if !ok {
		s = &opState{}
		cb.states[op] = s
	}

	s.consecutiveFailures++
	if s.consecutiveFailures >= cb.threshold {
		s.state = stateOpen
		s.openedAt = time.Now()
	}
}
