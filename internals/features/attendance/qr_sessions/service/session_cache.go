// internals/features/attendance/qr_sessions/service/session_cache.go
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"

	"attendku_backend/internals/features/attendance/qr_sessions/model"
)

const cacheKeyPrefix = "attendku:qr:"

// SessionCache: token → sesi di Redis sampai valid_until.
// Client nil = cache non-aktif (semua operasi no-op / miss).
type SessionCache struct {
	Client *redis.Client
}

func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{Client: client}
}

func cacheKey(token string) string { return cacheKeyPrefix + token }

func (c *SessionCache) enabled() bool { return c != nil && c.Client != nil }

func (c *SessionCache) Put(ctx context.Context, s *model.QRSessionModel) {
	if !c.enabled() || s == nil {
		return
	}
	ttl := time.Until(s.QRSessionValidUntil)
	if ttl <= 0 {
		return
	}
	b, err := sonic.Marshal(s)
	if err != nil {
		log.Printf("[CACHE] marshal qr session: %v", err)
		return
	}
	if err := c.Client.Set(ctx, cacheKey(s.QRSessionToken), b, ttl).Err(); err != nil {
		log.Printf("[CACHE] set %s: %v", s.QRSessionID, err)
	}
}

// Get: (nil, false) kalau miss atau Redis error.
func (c *SessionCache) Get(ctx context.Context, token string) (*model.QRSessionModel, bool) {
	if !c.enabled() || token == "" {
		return nil, false
	}
	b, err := c.Client.Get(ctx, cacheKey(token)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[CACHE] get: %v", err)
		}
		return nil, false
	}
	var s model.QRSessionModel
	if err := sonic.Unmarshal(b, &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (c *SessionCache) Delete(ctx context.Context, token string) {
	if !c.enabled() || token == "" {
		return
	}
	if err := c.Client.Del(ctx, cacheKey(token)).Err(); err != nil {
		log.Printf("[CACHE] del: %v", err)
	}
}
