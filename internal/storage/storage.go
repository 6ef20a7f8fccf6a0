// Package storage is the best-effort persistence sink behind the chat hub.
// It records room lifecycle in PostgreSQL, mirrors room events on a Redis
// pub/sub channel, and holds matchmaking ban flags in Redis. The hub stays
// correct with any of these backends absent.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"pairchat/backend/internal/models"
)

// RoomEventsChannel is the Redis pub/sub channel carrying room lifecycle events.
const RoomEventsChannel = "rooms:events"

// Storage is what the hub and the admin CLI need from persistence.
type Storage interface {
	SaveRoom(room *models.ChatRoom) error
	CloseRoom(roomName string) error
	PublishRoomEvent(ev models.RoomEvent) error

	IsBanned(anonID string) (bool, error)
	BanUser(anonID string, d time.Duration) error
	UnbanUser(anonID string) error
}

// Service implements Storage over GORM and Redis. Either backend may be nil;
// the corresponding operations degrade to no-ops so the hub can run without
// external infrastructure.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewService constructs a Service. db and rdb may each be nil.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveRoom inserts the audit row for a freshly opened room.
func (s *Service) SaveRoom(room *models.ChatRoom) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Save(room).Error
}

// CloseRoom marks the room's audit row inactive and stamps the end time.
func (s *Service) CloseRoom(roomName string) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Model(&models.ChatRoom{}).
		Where("room_name = ?", roomName).
		Updates(map[string]interface{}{
			"is_active": false,
			"ended_at":  gorm.Expr("NOW()"),
		}).Error
}

// PublishRoomEvent mirrors a room lifecycle event on Redis pub/sub.
func (s *Service) PublishRoomEvent(ev models.RoomEvent) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, RoomEventsChannel, payload).Err()
}

func banKey(anonID string) string { return "ban:" + anonID }

// IsBanned reports whether a matchmaking ban flag exists for the connection id.
// Without Redis nobody is banned.
func (s *Service) IsBanned(anonID string) (bool, error) {
	if s.Redis == nil {
		return false, nil
	}
	status, err := s.Redis.Get(s.Ctx, banKey(anonID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// BanUser sets the ban flag. d <= 0 means no expiry.
func (s *Service) BanUser(anonID string, d time.Duration) error {
	if s.Redis == nil {
		return errors.New("storage: redis is not configured")
	}
	return s.Redis.Set(s.Ctx, banKey(anonID), "banned", d).Err()
}

// UnbanUser clears the ban flag. Clearing an absent flag is a no-op.
func (s *Service) UnbanUser(anonID string) error {
	if s.Redis == nil {
		return errors.New("storage: redis is not configured")
	}
	return s.Redis.Del(s.Ctx, banKey(anonID)).Err()
}
