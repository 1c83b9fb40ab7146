package database

import (
	"context"
	"log"

	"cinema_booking/config"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis wires the client used for the seat-map cache and the
// per-showtime pub/sub fan-out. The server keeps working without redis;
// callers treat cache misses and publish errors as non-fatal.
func ConnectRedis() {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
	})
	if err := Redis.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unavailable at %s: %v", addr, err)
	}
}
