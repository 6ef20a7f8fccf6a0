package chathub

import "pairchat/backend/internal/models"

// Session is the coordinator-owned record for one live connection: the
// explicit side table entry that replaces stashing state on the transport
// object. Created on transport-connect, destroyed on transport-disconnect,
// never persisted.
type Session struct {
	Client   Client
	State    models.SessionState
	RoomName string
	Profile  *models.Profile
}

// Registry maps connection ids to their session records. It is the source of
// truth for "is this connection still alive". Like WaitQueue it carries no
// lock of its own; the Coordinator's mutex serializes all access.
type Registry struct {
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register creates the session record for a fresh connection, state idle.
func (r *Registry) Register(c Client) *Session {
	sess := &Session{Client: c, State: models.StateIdle}
	r.sessions[c.GetAnonID()] = sess
	return sess
}

// AttachProfile sets the optional metadata. No state change.
func (r *Registry) AttachProfile(id string, p *models.Profile) {
	if sess, ok := r.sessions[id]; ok {
		sess.Profile = p
	}
}

// Lookup returns the session record for id, if the connection is live.
func (r *Registry) Lookup(id string) (*Session, bool) {
	sess, ok := r.sessions[id]
	return sess, ok
}

// Remove deletes the record. Idempotent: disconnect and explicit end can
// race, so the second call for the same id reports false and does nothing.
func (r *Registry) Remove(id string) (*Session, bool) {
	sess, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	delete(r.sessions, id)
	return sess, true
}

func (r *Registry) Len() int { return len(r.sessions) }
