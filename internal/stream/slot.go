package stream

import (
	"context"
	"sync"
)

// SlotState is the lifecycle of a memoized resolution step.
type SlotState int

const (
	SlotUnattempted SlotState = iota
	SlotResolved
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotResolved:
		return "resolved"
	case SlotFailed:
		return "failed"
	default:
		return "unattempted"
	}
}

// Slot memoizes the outcome of one resolution step. Once resolved or failed
// it is never attempted again. An attempt cut short by the caller's context
// leaves the slot unattempted.
type Slot[T any] struct {
	mu    sync.Mutex
	state SlotState
	value T
	err   error
}

// Resolve returns the memoized outcome, running fn only while unattempted.
// The slot lock is held for the duration of fn so concurrent callers share
// one attempt.
func (s *Slot[T]) Resolve(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SlotResolved:
		return s.value, nil
	case SlotFailed:
		var zero T
		return zero, s.err
	}

	value, err := fn(ctx)
	if err != nil {
		if ctx.Err() != nil {
			var zero T
			return zero, err
		}
		s.state = SlotFailed
		s.err = err
		var zero T
		return zero, err
	}
	s.state = SlotResolved
	s.value = value
	return value, nil
}

// State reports the current slot state.
func (s *Slot[T]) State() SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Peek returns the memoized value and error without attempting anything.
func (s *Slot[T]) Peek() (T, SlotState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.state, s.err
}
