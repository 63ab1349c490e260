package service

import (
	"errors"
	"fmt"

	"github.com/AdamBeresnev/gymit/internal/bracket"
	"github.com/AdamBeresnev/gymit/internal/lock"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("you need trainer or admin privileges")
	ErrAdminOnly       = fmt.Errorf("%w: admin role required", ErrForbidden)
	ErrValidation      = errors.New("validation failed")
	ErrInvalidState    = errors.New("action not allowed in the current tournament state")

	ErrNotFound            = errors.New("not found")
	ErrTournamentNotFound  = fmt.Errorf("tournament %w", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("participant %w", ErrNotFound)

	ErrCapacityExceeded   = errors.New("entries would exceed the tournament's maximum participants")
	ErrTournamentFull     = errors.New("tournament is full")
	ErrRegistrationClosed = errors.New("registration is closed")
	ErrAlreadyRegistered  = errors.New("user is already registered for this tournament")
	ErrAlreadyApproved    = errors.New("participant is already approved")
	ErrAlreadyGenerated   = errors.New("bracket has already been generated")
	ErrTournamentPaused   = errors.New("tournament is paused")

	ErrLockTimeout = lock.ErrTimeout
)

// Bracket errors surface unchanged through the service.
var (
	ErrInsufficientParticipants = bracket.ErrInsufficientParticipants
	ErrMatchNotFound            = bracket.ErrMatchNotFound
	ErrMatchAlreadyDecided      = bracket.ErrMatchAlreadyDecided
	ErrIncompleteMatch          = bracket.ErrIncompleteMatch
	ErrInvalidWinner            = bracket.ErrInvalidWinner
	ErrNoResultToClear          = bracket.ErrNoResultToClear
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ErrorKind names an error for API clients. Unknown errors are "internal".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMatchNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrTournamentFull):
		return "tournament_full"
	case errors.Is(err, ErrRegistrationClosed):
		return "registration_closed"
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrAlreadyApproved):
		return "already_approved"
	case errors.Is(err, ErrAlreadyGenerated):
		return "already_generated"
	case errors.Is(err, ErrTournamentPaused):
		return "tournament_paused"
	case errors.Is(err, ErrMatchAlreadyDecided):
		return "already_decided"
	case errors.Is(err, ErrIncompleteMatch):
		return "incomplete_match"
	case errors.Is(err, ErrInvalidWinner):
		return "invalid_winner"
	case errors.Is(err, ErrNoResultToClear):
		return "no_result_to_clear"
	case errors.Is(err, ErrInsufficientParticipants):
		return "insufficient_participants"
	case errors.Is(err, ErrLockTimeout):
		return "lock_timeout"
	}
	return "internal"
}
