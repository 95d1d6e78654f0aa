package auth

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fleet-api/internal/identity"
	"fleet-api/pkg/logger"
)

const identityCachePrefix = "auth:identity:"

// IdentityCache keeps verified identities, keyed by identity id, for a short
// time so repeated requests skip the user lookup. Failures are logged and
// treated as misses.
type IdentityCache interface {
	Get(ctx context.Context, key string) (*identity.Document, bool)
	Set(ctx context.Context, key string, document *identity.Document, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type cachedIdentity struct {
	Id       string        `json:"id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Phone    string        `json:"phone,omitempty"`
	Role     identity.Role `json:"role"`
	IsActive bool          `json:"isActive"`
}

type redisIdentityCache struct {
	client redis.Cmdable
}

func NewRedisIdentityCache(client redis.Cmdable) IdentityCache {
	return &redisIdentityCache{
		client: client,
	}
}

func (c *redisIdentityCache) Get(ctx context.Context, key string) (*identity.Document, bool) {
	raw, err := c.client.Get(ctx, identityCachePrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.FromContext(ctx).Warnw("identity cache read failed", zap.Error(err))
		return nil, false
	}

	var cached cachedIdentity
	if err := json.Unmarshal(raw, &cached); err != nil {
		logger.FromContext(ctx).Warnw("identity cache entry is malformed", zap.Error(err))
		return nil, false
	}

	return &identity.Document{
		Id:       cached.Id,
		Name:     cached.Name,
		Email:    cached.Email,
		Phone:    cached.Phone,
		Role:     cached.Role,
		IsActive: cached.IsActive,
	}, true
}

func (c *redisIdentityCache) Set(ctx context.Context, key string, document *identity.Document, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	raw, err := json.Marshal(cachedIdentity{
		Id:       document.Id,
		Name:     document.Name,
		Email:    document.Email,
		Phone:    document.Phone,
		Role:     document.Role,
		IsActive: document.IsActive,
	})
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, identityCachePrefix+key, raw, ttl).Err(); err != nil {
		logger.FromContext(ctx).Warnw("identity cache write failed", zap.Error(err))
	}
}

func (c *redisIdentityCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, identityCachePrefix+key).Err(); err != nil {
		logger.FromContext(ctx).Warnw("identity cache eviction failed", zap.Error(err))
	}
}
