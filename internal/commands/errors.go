package commands

import "errors"

// ErrTargetOffline is reported when a command names a player who is not connected.
var ErrTargetOffline = errors.New("target player is not online")

// UserError represents an error that should be displayed to the user.
// These are not system failures - just invalid input or usage.
type UserError struct {
	Message string
	// Err is the party condition behind the message, if any.
	Err error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}
