package models

// SessionState is the pairing state of one live connection. Pairing always
// passes through StateWaiting: there is no Idle to Paired shortcut, even when
// the wait resolves on the same call.
type SessionState int

const (
	// StateIdle: connected, no pairing requested.
	StateIdle SessionState = iota
	// StateWaiting: enqueued, no partner yet.
	StateWaiting
	// StatePaired: member of an active room.
	StatePaired
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StatePaired:
		return "paired"
	}
	return "unknown"
}
