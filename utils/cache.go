package utils

import (
	"context"
	"log"
	"time"

	"detailbook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (postcode lookups).
	CacheClient *redis.Client
	// SessionClient stores booking flow snapshots.
	SessionClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

func ping(client *redis.Client, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
}

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB)
	ping(CacheClient, "Cache")
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitSessionCache initializes the Redis client holding booking flow sessions.
func InitSessionCache() {
	SessionClient = newRedisClient(config.AppConfig.RedisSessionDB)
	ping(SessionClient, "Session")
}

// GetSessionCacheClient returns the booking flow session client.
func GetSessionCacheClient() *redis.Client {
	if SessionClient == nil {
		InitSessionCache()
	}
	return SessionClient
}

// RedisClients lists the clients opened so far, for health checks.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{CacheClient, SessionClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
