package domain

import "errors"

// State-machine errors. They describe the current state of a record and are
// not operational failures: callers re-read state instead of retrying.
var (
	// ErrAlreadyCompleted indicates the step was already taken today with
	// different data.
	ErrAlreadyCompleted = errors.New("already completed")

	// ErrLimitExceeded indicates a per-day counter is at its cap.
	ErrLimitExceeded = errors.New("daily limit exceeded")

	// ErrInvalidTransition indicates the requested step is not reachable
	// from the current stage.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrLedgerFull indicates all constellation slots are taken.
	ErrLedgerFull = errors.New("constellation ledger full")
)

var (
	ErrInvalidDayKey   = errors.New("invalid day key")
	ErrInvalidEmotion  = errors.New("invalid emotion")
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsStateConflict reports whether err is one of the recoverable
// state-machine errors.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrLimitExceeded) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrLedgerFull)
}
