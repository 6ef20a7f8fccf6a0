package storage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pairchat/backend/internal/models"
	"pairchat/backend/internal/storage"
)

// The hub must run with no backends at all: audit writes degrade to no-ops
// and nobody is banned.
func TestServiceWithoutBackends(t *testing.T) {
	s := storage.NewService(nil, nil)

	assert.NoError(t, s.SaveRoom(&models.ChatRoom{RoomName: "room-1"}))
	assert.NoError(t, s.CloseRoom("room-1"))
	assert.NoError(t, s.PublishRoomEvent(models.RoomEvent{Event: "opened", RoomName: "room-1"}))

	banned, err := s.IsBanned("anon-123")
	assert.NoError(t, err)
	assert.False(t, banned)

	// Mutating ban flags does require Redis.
	assert.Error(t, s.BanUser("anon-123", time.Hour))
	assert.Error(t, s.UnbanUser("anon-123"))
}
