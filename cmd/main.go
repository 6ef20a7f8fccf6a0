package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pairchat/backend/internal/api/handler"
	"pairchat/backend/internal/chathub"
	"pairchat/backend/internal/config"
	"pairchat/backend/internal/models"
	"pairchat/backend/internal/storage"
	"pairchat/backend/internal/telegram"
)

// setupDependencies dials the optional backends. The hub itself is fully
// in-memory; a missing backend disables the corresponding feature and
// nothing else.
func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	var db *gorm.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect PostgreSQL: %v", err)
		}
		if err := db.AutoMigrate(&models.ChatRoom{}); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("POSTGRES_DSN not set, room audit trail disabled")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("Failed to connect Redis: %v", err)
		}
	} else {
		log.Println("REDIS_ADDR not set, room-event mirror and ban flags disabled")
	}

	return db, rdb
}

func main() {
	log.Println("Starting pairchat backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	var store storage.Storage
	if db != nil || rdb != nil {
		store = storage.NewService(db, rdb)
	}

	co := chathub.NewCoordinator(store)

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBotService(cfg.TelegramToken, co)
		if err != nil {
			log.Fatalf("Failed to start telegram bot: %v", err)
		}
		go bot.Run()
	}

	r := gin.Default()
	h := handler.NewHandler(co, []byte(cfg.JWTSecret))

	r.GET("/anonid", h.GetAnonID)
	r.GET("/ws", h.ServeWebSocket)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Listening on %s", cfg.ListenAddr)
	log.Fatal(server.ListenAndServe())
}
