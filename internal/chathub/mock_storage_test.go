package chathub_test

import (
	"time"

	"github.com/stretchr/testify/mock"

	"pairchat/backend/internal/models"
)

// MockStorage is a testify mock for the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveRoom(room *models.ChatRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStorage) CloseRoom(roomName string) error {
	args := m.Called(roomName)
	return args.Error(0)
}

func (m *MockStorage) PublishRoomEvent(ev models.RoomEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

func (m *MockStorage) IsBanned(anonID string) (bool, error) {
	args := m.Called(anonID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) BanUser(anonID string, d time.Duration) error {
	args := m.Called(anonID, d)
	return args.Error(0)
}

func (m *MockStorage) UnbanUser(anonID string) error {
	args := m.Called(anonID)
	return args.Error(0)
}
