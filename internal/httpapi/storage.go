package httpapi

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/redis/v3"
)

// NewSessionStorage returns Redis session storage for redisURL.
// An empty URL returns nil, which keeps sessions in memory.
func NewSessionStorage(redisURL string) (storage fiber.Storage, err error) {
	if redisURL == "" {
		return nil, nil
	}

	// redis.New panics when the server cannot be reached
	defer func() {
		if r := recover(); r != nil {
			storage = nil
			err = fmt.Errorf("cannot connect to redis: %v", r)
		}
	}()

	return redis.New(redis.Config{URL: redisURL}), nil
}
