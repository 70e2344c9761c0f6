// Package mock provides shared fakes for the integration suite.
package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	redisConnOnce sync.Once
	redisConn     *redis.Client
)

// NewRedis returns a process-wide client backed by an in-memory miniredis.
// Scenarios share the instance; call ClearRedis between them.
func NewRedis() *redis.Client {
	redisConnOnce.Do(func() {
		miniRedis, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisConn = redis.NewClient(&redis.Options{Addr: miniRedis.Addr()})
	})
	return redisConn
}

// ClearRedis wipes every key so scenarios cannot leak cached buckets into
// each other.
func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.TODO()).Err()
}
