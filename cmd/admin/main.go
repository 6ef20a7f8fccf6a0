// The admin CLI manages matchmaking ban flags in Redis.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"pairchat/backend/internal/config"
	"pairchat/backend/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.RedisAddr == "" {
		log.Fatal("REDIS_ADDR must be set for the admin CLI")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	store := storage.NewService(nil, rdb)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "ban":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin ban <anon_id> [duration_in_hours]")
			os.Exit(1)
		}
		anonID := os.Args[2]
		duration := config.DefaultBanDuration
		if len(os.Args) > 3 {
			hours, err := strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Println("Invalid duration. Please provide an integer number of hours.")
				os.Exit(1)
			}
			duration = time.Duration(hours) * time.Hour
		}
		if err := store.BanUser(anonID, duration); err != nil {
			log.Fatalf("Error banning user: %v", err)
		}
		fmt.Printf("User %s has been banned for %s.\n", anonID, duration)

	case "unban":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unban <anon_id>")
			os.Exit(1)
		}
		anonID := os.Args[2]
		if err := store.UnbanUser(anonID); err != nil {
			log.Fatalf("Error unbanning user: %v", err)
		}
		fmt.Printf("User %s has been unbanned.\n", anonID)

	case "check":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin check <anon_id>")
			os.Exit(1)
		}
		anonID := os.Args[2]
		banned, err := store.IsBanned(anonID)
		if err != nil {
			log.Fatalf("Error checking ban: %v", err)
		}
		fmt.Printf("User %s banned: %v\n", anonID, banned)

	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <ban|unban|check> [args]")
	os.Exit(1)
}
