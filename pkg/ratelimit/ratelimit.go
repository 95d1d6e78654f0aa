package ratelimit

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fleet-api/pkg/cerror"
	"fleet-api/pkg/config"
	"fleet-api/pkg/logger"
)

const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderRetryAfter = "Retry-After"

	MessageTooManyRequests = "too many requests, please try again later"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type limiter struct {
	client redis.Cmdable
	max    int
	window time.Duration
	prefix string
}

// NewLimiter returns a fixed window limiter. Each key gets cfg.Max hits per
// cfg.Window; the window starts with the first hit.
func NewLimiter(client redis.Cmdable, cfg config.RateLimitConfig, prefix string) Limiter {
	return &limiter{
		client: client,
		max:    cfg.Max,
		window: cfg.Window,
		prefix: prefix,
	}
}

func (l *limiter) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		ttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	count := int(incr.Val())
	retryAfter := ttl.Val()
	if retryAfter < 0 {
		retryAfter = l.window
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:    count <= l.max,
		Remaining:  remaining,
		RetryAfter: retryAfter,
	}, nil
}

// Middleware limits requests per client ip. A nil limiter disables limiting,
// and limiter errors let the request through.
func Middleware(l Limiter, max int) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if l == nil {
			return ctx.Next()
		}

		result, err := l.Allow(ctx.Context(), ctx.IP())
		if err != nil {
			logger.FromContext(ctx.Context()).Warnw("rate limiter unavailable", zap.Error(err))
			return ctx.Next()
		}

		ctx.Set(HeaderLimit, strconv.Itoa(max))
		ctx.Set(HeaderRemaining, strconv.Itoa(result.Remaining))

		if !result.Allowed {
			seconds := int(math.Ceil(result.RetryAfter.Seconds()))
			ctx.Set(HeaderRetryAfter, strconv.Itoa(seconds))
			return cerror.NewError(fiber.StatusTooManyRequests, MessageTooManyRequests, zap.String("ip", ctx.IP())).
				SetSeverity(zapcore.WarnLevel)
		}

		return ctx.Next()
	}
}
