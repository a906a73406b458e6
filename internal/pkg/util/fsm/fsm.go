// Package fsm holds small helpers around looplab/fsm callbacks.
package fsm

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

// WrapEvent adapts an error-returning callback. A non-nil error is stored
// on the event and returned by FSM.Event.
func WrapEvent(fn func(ctx context.Context, event *fsm.Event) error) fsm.Callback {
	return func(ctx context.Context, event *fsm.Event) {
		if err := fn(ctx, event); err != nil {
			event.Err = err
		}
	}
}

// Guard adapts a before_ callback. A non-nil error cancels the transition.
func Guard(fn func(ctx context.Context, event *fsm.Event) error) fsm.Callback {
	return func(ctx context.Context, event *fsm.Event) {
		if err := fn(ctx, event); err != nil {
			event.Cancel(err)
		}
	}
}

// IgnoreNoTransition drops the error reported for a self-transition.
func IgnoreNoTransition(err error) error {
	var nt fsm.NoTransitionError
	if errors.As(err, &nt) {
		return nt.Err
	}
	return err
}

// CancelReason returns the error a Guard canceled with, if err is a cancellation.
func CancelReason(err error) (error, bool) {
	var ce fsm.CanceledError
	if errors.As(err, &ce) {
		return ce.Err, true
	}
	return nil, false
}
