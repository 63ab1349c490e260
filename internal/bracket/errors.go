package bracket

import "errors"

var (
	ErrInsufficientParticipants = errors.New("at least two approved participants are required")
	ErrMatchNotFound            = errors.New("match not found")
	ErrMatchAlreadyDecided      = errors.New("match already has a winner")
	ErrIncompleteMatch          = errors.New("match is still waiting for a participant")
	ErrInvalidWinner            = errors.New("winner is not part of this match")
	ErrNoResultToClear          = errors.New("match has no result to clear")
	ErrByeResult                = errors.New("bye results cannot be changed")
	ErrMalformedBracket         = errors.New("malformed bracket")
)
