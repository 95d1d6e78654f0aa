package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fleet-api/pkg/cerror"
)

const (
	presenceKeyPrefix = "presence:"
	PresenceTtl       = 24 * time.Hour
)

// PresenceStore keeps the last status each identity announced. Unknown
// identities are offline.
type PresenceStore interface {
	SetStatus(ctx context.Context, identityId string, status Status) error
	Statuses(ctx context.Context, identityIds []string) (map[string]string, error)
}

type redisPresenceStore struct {
	client redis.Cmdable
}

func NewRedisPresenceStore(client redis.Cmdable) PresenceStore {
	return &redisPresenceStore{
		client: client,
	}
}

func (s *redisPresenceStore) SetStatus(ctx context.Context, identityId string, status Status) error {
	var err error
	if status == StatusOffline {
		err = s.client.Del(ctx, presenceKeyPrefix+identityId).Err()
	} else {
		err = s.client.Set(ctx, presenceKeyPrefix+identityId, string(status), PresenceTtl).Err()
	}
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while set presence",
			zap.Error(err),
			zap.String("userId", identityId),
		)
	}

	return nil
}

func (s *redisPresenceStore) Statuses(ctx context.Context, identityIds []string) (map[string]string, error) {
	statuses := make(map[string]string, len(identityIds))
	if len(identityIds) == 0 {
		return statuses, nil
	}

	keys := make([]string, len(identityIds))
	for i, identityId := range identityIds {
		keys[i] = presenceKeyPrefix + identityId
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while get presence",
			zap.Error(err),
		)
	}

	for i, identityId := range identityIds {
		status, ok := values[i].(string)
		if !ok {
			status = string(StatusOffline)
		}
		statuses[identityId] = status
	}

	return statuses, nil
}

type memoryPresenceStore struct {
	mutex    sync.RWMutex
	statuses map[string]Status
}

// NewMemoryPresenceStore serves single instance deployments without redis.
func NewMemoryPresenceStore() PresenceStore {
	return &memoryPresenceStore{
		statuses: map[string]Status{},
	}
}

func (s *memoryPresenceStore) SetStatus(_ context.Context, identityId string, status Status) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if status == StatusOffline {
		delete(s.statuses, identityId)
		return nil
	}
	s.statuses[identityId] = status
	return nil
}

func (s *memoryPresenceStore) Statuses(_ context.Context, identityIds []string) (map[string]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	statuses := make(map[string]string, len(identityIds))
	for _, identityId := range identityIds {
		status, ok := s.statuses[identityId]
		if !ok {
			status = StatusOffline
		}
		statuses[identityId] = string(status)
	}
	return statuses, nil
}
