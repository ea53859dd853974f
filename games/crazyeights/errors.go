package crazyeights

import "errors"

var (
	// ErrMalformed marks an inbound event or value that is missing a required
	// field or references an unknown card, suit or participant.
	ErrMalformed = errors.New("malformed event")

	// ErrUnexpected marks a well-formed event that does not apply in the current phase.
	ErrUnexpected = errors.New("unexpected event")
)

// Rejections returned by the outbound action gate. Nothing is sent when one is returned.
var (
	ErrInvalidName      = errors.New("names must be 1-30 letters, digits, spaces, hyphens or underscores")
	ErrAlreadyJoined    = errors.New("already joined a table")
	ErrNotConnected     = errors.New("not joined to a table")
	ErrNotEnoughPlayers = errors.New("at least two players are needed to start")
	ErrWrongPhase       = errors.New("not possible at this point of the game")
	ErrNotYourTurn      = errors.New("it is not your turn")
	ErrCardNotInHand    = errors.New("that card is not in your hand")
	ErrIllegalCard      = errors.New("that card cannot be played on the current pile")
	ErrSuitRequired     = errors.New("playing that card requires declaring a suit")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrMessageTooLong   = errors.New("message is too long")
)
