package redis

import (
	"context"
	"log"
	"time"

	"learning-service/internal/config"

	"github.com/redis/go-redis/v9"
)

func Connect(cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Error connect to Redis: %s", err)
	} else {
		log.Println("Successfully connected to Redis")
	}
	return client
}
