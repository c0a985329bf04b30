// Copyright (c) 2025 BVK Chaitanya

// Package trigger implements the two-stage price condition shared by buy,
// sell and cover decisions. Stage one (the trigger) requires the price to
// move a percentage away from a fixed reference; stage two (the callback)
// requires a partial reversal from the point where the trigger was met.
package trigger

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// Direction identifies which way a price move must point to satisfy the
// trigger. Buys and covers watch for falls; sells watch for rises.
type Direction string

const (
	Up   Direction = "UP"
	Down Direction = "DOWN"
)

// State is the two-state machine attached to every independent decision
// track.
type State string

const (
	Idle      State = "IDLE"
	Triggered State = "CONDITION_1_MET"
)

var hundred = decimal.NewFromInt(100)

// Moved reports whether price has moved at least pct percent from reference
// in the given direction. It fails closed when the reference is zero or
// negative so that no decision can divide by zero.
func Moved(current, reference, pct decimal.Decimal, dir Direction) (bool, error) {
	if reference.Sign() <= 0 {
		return false, nil
	}
	change := current.Sub(reference).Div(reference).Mul(hundred)
	switch dir {
	case Down:
		return change.LessThanOrEqual(pct.Neg()), nil
	case Up:
		return change.GreaterThanOrEqual(pct), nil
	}
	return false, fmt.Errorf("invalid trigger direction %q: %w", dir, os.ErrInvalid)
}

// Callback reports whether price has reversed at least pct percent from the
// anchor recorded when the trigger was met. A Down trigger waits for a rise
// and an Up trigger waits for a fall. Fails closed when the anchor is zero
// or negative.
func Callback(current, anchor, pct decimal.Decimal, dir Direction) (bool, error) {
	if anchor.Sign() <= 0 {
		return false, nil
	}
	switch dir {
	case Down:
		rise := current.Sub(anchor).Div(anchor).Mul(hundred)
		return rise.GreaterThanOrEqual(pct), nil
	case Up:
		fall := anchor.Sub(current).Div(anchor).Mul(hundred)
		return fall.GreaterThanOrEqual(pct), nil
	}
	return false, fmt.Errorf("invalid trigger direction %q: %w", dir, os.ErrInvalid)
}

// Track carries the state machine of one decision. Anchor is non-zero
// exactly when State is Triggered.
type Track struct {
	State  State
	Anchor decimal.Decimal
}

// NewTrack returns an idle track.
func NewTrack() Track {
	return Track{State: Idle}
}

func (t *Track) Reset() {
	t.State = Idle
	t.Anchor = decimal.Zero
}

// Evaluate advances the track by one price observation and reports whether
// the decision fired.
//
// When both percentages are zero the track degenerates into "act as soon as
// price reaches the reference": the state is forced back to Idle and the
// bare movement check decides.
//
// Otherwise an idle track arms itself when the trigger condition is met,
// recording the current price as the anchor, and evaluation continues into
// the armed stage within the same call. The armed stage first re-checks the
// trigger against the original reference, resetting the track when the
// setup has been invalidated, and then checks the callback against the
// anchor. The anchor is never updated while armed; it stays fixed at the
// price that met the trigger.
func (t *Track) Evaluate(current, reference, triggerPct, callbackPct decimal.Decimal, dir Direction) (bool, error) {
	if triggerPct.IsZero() && callbackPct.IsZero() {
		t.Reset()
		return Moved(current, reference, decimal.Zero, dir)
	}

	if t.State != Triggered {
		ok, err := Moved(current, reference, triggerPct, dir)
		if err != nil || !ok {
			return false, err
		}
		t.State, t.Anchor = Triggered, current
	}

	if t.Anchor.Sign() <= 0 {
		t.Reset()
		return false, nil
	}

	ok, err := Moved(current, reference, triggerPct, dir)
	if err != nil {
		return false, err
	}
	if !ok {
		t.Reset()
		return false, nil
	}

	fired, err := Callback(current, t.Anchor, callbackPct, dir)
	if err != nil {
		return false, err
	}
	if fired {
		t.Reset()
		return true, nil
	}
	return false, nil
}
