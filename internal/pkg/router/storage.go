package router

import (
	"strconv"

	"github.com/ManuelReschke/NotesKart/internal/pkg/env"
	"github.com/gofiber/storage/redis"
)

// newLimiterStorage backs the rate limiter with the shared cache server
// so limits hold across restarts and replicas.
func newLimiterStorage() *redis.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redis.New(redis.Config{
		Host: env.GetEnv("CACHE_HOST", "localhost"),
		Port: port,
	})
}
