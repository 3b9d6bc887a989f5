package config

import (
	"Wordspy/services/redis"
	"log"
	"os"
)

// Connect to Redis. A connection failure is reported, not fatal: the
// session store falls back to its in-memory copy when Redis is down.
func Connect_redis() (*redis.RedisClient, error) {
	redisUri := os.Getenv("REDIS_URL")
	redisClient, err := redis.InitRedis(redisUri, 0)
	if err != nil {
		log.Printf("Error connecting to Redis: %v", err)
		return nil, err
	}
	log.Println("Redis connection established")
	return redisClient, nil
}
