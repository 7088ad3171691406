// Package engine implements the domain transitions over an AppState
// snapshot. Every transition takes the current snapshot plus an injected
// clock and returns a replacement snapshot; nothing here mutates shared
// state or performs I/O. Transitions on ids that do not resolve return the
// input snapshot unchanged.
package engine

import "errors"

var (
	// ErrNotFound is returned by authoring operations when the target
	// entity does not exist in the snapshot.
	ErrNotFound = errors.New("engine: not found")
	// ErrInsufficientCoins is returned when a reward claim exceeds the
	// child's balance.
	ErrInsufficientCoins = errors.New("engine: insufficient coins")
	// ErrLastChild is returned when removing the only remaining child.
	ErrLastChild = errors.New("engine: cannot remove the last child")
	// ErrRosterFull is returned when enrollment would exceed the cap.
	ErrRosterFull = errors.New("engine: roster is full")
	// ErrInvalidPin is returned when a new PIN is not exactly four digits.
	ErrInvalidPin = errors.New("engine: pin must be exactly 4 digits")
	// ErrInvalidInput is returned when an authored entity fails validation.
	ErrInvalidInput = errors.New("engine: invalid input")
)
