package chathub

import "pairchat/backend/internal/models"

// Client is the interface for any type of connection (e.g., WebSocket,
// Telegram). It abstracts the underlying transport so the coordinator can
// manage different front ends uniformly. Room membership is deliberately not
// part of this interface: the session side table owned by the coordinator is
// the only place that knows who is paired with whom.
type Client interface {
	// GetAnonID returns the transport-assigned connection identifier,
	// stable for the lifetime of one network session.
	GetAnonID() string

	// GetSendChannel returns the buffered channel the coordinator delivers
	// outbound events to. Delivery never blocks: a full channel drops the
	// event for this client only.
	GetSendChannel() chan<- models.ServerEvent

	// Run starts the client's read and write pumps.
	Run()

	// Close shuts down the client's outbound side. Called exactly once, by
	// the coordinator, after the connection has been removed from the
	// session table.
	Close()
}
