package chathub

import "errors"

var (
	// ErrInvalidState rejects a request that is not legal in the caller's
	// current session state, e.g. asking for a new chat while paired. It is
	// surfaced to the requesting connection as an error event, never fatal.
	ErrInvalidState = errors.New("chathub: request not allowed in current session state")

	// ErrNotInRoom marks a relay attempt from a connection that is not a
	// member of any room. Benign UI races produce these, so callers treat
	// it as a silent no-op.
	ErrNotInRoom = errors.New("chathub: connection is not in a room")

	// ErrBanned rejects a matchmaking request from a connection with an
	// active ban flag.
	ErrBanned = errors.New("chathub: connection is banned from matchmaking")
)
