package config

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
)

// InitRedis connects to redis when REDIS_ADDR is set. A nil client means
// run state is kept in process memory.
func InitRedis(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, keeping sync run state in memory")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}

	log.Printf("Successfully connected to Redis DB %d", cfg.RedisDB)
	return rdb
}
