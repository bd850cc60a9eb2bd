package scheduler

import "errors"

var (
	// ErrNotIdle is returned when Start is called on a scheduler that has
	// already run; Stopped is terminal.
	ErrNotIdle = errors.New("scheduler: not idle")

	// ErrUnknownKind is recorded when a queued transaction carries an
	// operation kind the dispatch switch does not recognize.
	ErrUnknownKind = errors.New("scheduler: unknown transaction kind")
)
