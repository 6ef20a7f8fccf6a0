package models

import (
	"time"

	"github.com/lib/pq"
)

// ChatRoom is the audit record for one 1-on-1 session. It is written by the
// storage sink when a room opens and updated when it closes; the in-memory
// hub never reads it back. No chat content is ever stored.
type ChatRoom struct {
	// RoomName is the unique room identifier ("room-<n>", never reused).
	RoomName string `gorm:"primaryKey"`
	// User1ID is the connection id of the member that was waiting.
	User1ID string `gorm:"type:text;not null"`
	// User2ID is the connection id of the member whose request completed the pair.
	User2ID string `gorm:"type:text;not null"`
	// Tags is the combined inert interest tags of both members at pairing
	// time. Opaque operational metadata; nothing matches on it.
	Tags pq.StringArray `gorm:"type:text[]"`
	// IsActive indicates whether the room is currently active.
	IsActive bool
	// StartedAt is the timestamp when the room was created.
	StartedAt time.Time
	// EndedAt is the timestamp when the room was purged.
	EndedAt time.Time
}

// RoomEvent is the operational event mirrored on the Redis pub/sub channel
// whenever a room opens or closes.
type RoomEvent struct {
	Event    string    `json:"event"` // "opened" or "closed"
	RoomName string    `json:"room_name"`
	User1ID  string    `json:"user1_id,omitempty"`
	User2ID  string    `json:"user2_id,omitempty"`
	At       time.Time `json:"at"`
}
