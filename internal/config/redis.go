package config

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// Redis backs the per-department daily ticket counters and the login
// attempt throttle.
var (
	Ctx   = context.Background()
	Redis *redis.Client
)

func InitRedis() {
	db := GetEnvInt("REDIS_DB", 0)

	Redis = redis.NewClient(&redis.Options{
		Addr:     GetEnv("REDIS_ADDR", "127.0.0.1:6379"),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       db,
	})

	if err := Redis.Ping(Ctx).Err(); err != nil {
		log.Fatal("[config] Redis not reachable: ", err)
	}

	log.Printf("[config] Redis connected (db %d)", db)
}
