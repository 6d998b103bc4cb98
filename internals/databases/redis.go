package database

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"attendku_backend/internals/configs"
)

var Redis *redis.Client

// ConnectRedis bersifat opsional: kalau REDIS_ADDR kosong atau ping gagal,
// Redis tetap nil dan fitur cache/lock otomatis non-aktif.
func ConnectRedis() *redis.Client {
	if configs.RedisAddr == "" {
		log.Println("ℹ️ REDIS_ADDR not set, QR cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("⚠️ Could not connect to Redis %s: %v (cache disabled)", configs.RedisAddr, err)
		_ = rdb.Close()
		return nil
	}

	log.Printf("✅ Connected to Redis %s db=%d", configs.RedisAddr, configs.RedisDB)
	Redis = rdb
	return rdb
}

func CloseRedis() {
	if Redis != nil {
		_ = Redis.Close()
	}
}
