// Package domain defines the error taxonomy shared by all economy services.
// Services return these errors; the presentation layer maps them to
// user-facing messages without knowing anything about storage.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientFunds is returned when a debit would drive a balance
	// below zero. The check happens inside the conditional update itself,
	// so concurrent debits cannot race past it.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCapacityExceeded is returned when a membership tier is full or a
	// wallet credit would exceed its capacity.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrAlreadyExists is returned on duplicate keyed inserts.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound is returned on keyed lookups that match nothing.
	ErrNotFound = errors.New("not found")

	// ErrNotInShop is returned when a purchase names a role that is not in
	// the guild's catalog.
	ErrNotInShop = errors.New("item is not in the shop")

	// ErrAlreadyClaimed is returned when a reward was already claimed for
	// the current period.
	ErrAlreadyClaimed = errors.New("already claimed")

	// ErrAlreadyMember is returned when adding a user who already holds a
	// membership in the clan.
	ErrAlreadyMember = errors.New("already a clan member")

	// ErrRaffleEnded is returned when an operation targets a raffle whose
	// status is already ended. Draw attempts against an ended raffle are
	// a deliberate no-op.
	ErrRaffleEnded = errors.New("raffle has already ended")
)

// ValidationError reports a rejected input before any mutation occurred.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsUserError reports whether err should be shown to the user as-is rather
// than logged as a system failure.
func IsUserError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNotInShop) ||
		errors.Is(err, ErrAlreadyClaimed) ||
		errors.Is(err, ErrAlreadyMember) ||
		errors.Is(err, ErrRaffleEnded)
}
