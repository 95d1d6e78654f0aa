package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fleet-api/internal/identity"
	"fleet-api/pkg/cerror"
	"fleet-api/pkg/jwt_generator"
)

const (
	MessageTokenExpired     = "token expired"
	MessageTokenInvalid     = "invalid token"
	MessageIdentityGone     = "user no longer exists"
	MessageIdentityInactive = "user account is deactivated"
)

type Gate interface {
	identity.Gate
	Identify(ctx context.Context, rawToken string) (*identity.Document, error)
	Evict(ctx context.Context, identityId string)
}

type IdentityFinder interface {
	FindIdentityWithId(ctx context.Context, identityId string) (*identity.Document, error)
}

type Option func(g *gate)

// WithCache enables the identity cache. Entries never outlive the token they
// were verified with.
func WithCache(cache IdentityCache, ttl time.Duration) Option {
	return func(g *gate) {
		g.cache = cache
		g.cacheTtl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *gate) {
		g.now = now
	}
}

type gate struct {
	jwtGenerator   jwt_generator.JwtGenerator
	identityFinder IdentityFinder
	cache          IdentityCache
	cacheTtl       time.Duration
	now            func() time.Time
}

func NewGate(jwtGenerator jwt_generator.JwtGenerator, identityFinder IdentityFinder, options ...Option) Gate {
	g := &gate{
		jwtGenerator:   jwtGenerator,
		identityFinder: identityFinder,
		now:            time.Now,
	}
	for _, option := range options {
		option(g)
	}

	return g
}

func (g *gate) Authenticate() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		rawToken, ok := BearerToken(ctx.Get(fiber.HeaderAuthorization))
		if !ok {
			return cerror.NewError(fiber.StatusUnauthorized, cerror.MessageNotAuthorized).
				SetSeverity(zapcore.WarnLevel)
		}

		document, err := g.Identify(ctx.Context(), rawToken)
		if err != nil {
			return err
		}

		ctx.Locals(identity.LocalsKey, document)
		return ctx.Next()
	}
}

// Authorize panics on an empty or unknown role set; route tables are built
// at startup.
func (g *gate) Authorize(roles ...identity.Role) fiber.Handler {
	if len(roles) == 0 {
		panic("authorize needs at least one role")
	}

	allowed := make(map[identity.Role]bool, len(roles))
	for _, role := range roles {
		if !role.Valid() {
			panic(fmt.Sprintf("authorize called with unknown role %q", role))
		}
		allowed[role] = true
	}

	return func(ctx *fiber.Ctx) error {
		current, ok := identity.CurrentIdentity(ctx)
		if !ok {
			return cerror.NewError(fiber.StatusUnauthorized, cerror.MessageNotAuthorized).
				SetSeverity(zapcore.WarnLevel)
		}

		if !allowed[current.Role] {
			return cerror.NewError(
				fiber.StatusForbidden,
				fmt.Sprintf("user role %s is not authorized to access this route", current.Role),
				zap.String("userId", current.Id),
			).SetSeverity(zapcore.WarnLevel)
		}

		return ctx.Next()
	}
}

func (g *gate) Identify(ctx context.Context, rawToken string) (*identity.Document, error) {
	claims, err := g.jwtGenerator.VerifyAccessToken(rawToken)
	if errors.Is(err, jwt_generator.ErrTokenExpired) {
		return nil, cerror.NewError(fiber.StatusUnauthorized, MessageTokenExpired).
			SetSeverity(zapcore.WarnLevel)
	}
	if err != nil {
		return nil, cerror.NewError(fiber.StatusUnauthorized, MessageTokenInvalid, zap.Error(err)).
			SetSeverity(zapcore.WarnLevel)
	}

	if g.cache != nil {
		if document, ok := g.cache.Get(ctx, claims.Subject); ok && document.Id == claims.Subject {
			return checkActive(document)
		}
	}

	document, err := g.identityFinder.FindIdentityWithId(ctx, claims.Subject)
	if cerror.IsKind(err, cerror.KindNotFound) {
		return nil, cerror.NewError(fiber.StatusUnauthorized, MessageIdentityGone, zap.String("userId", claims.Subject)).
			SetSeverity(zapcore.WarnLevel)
	}
	if err != nil {
		return nil, err
	}

	if g.cache != nil && document.IsActive {
		ttl := g.cacheTtl
		if claims.ExpiresAt != nil {
			if remaining := claims.ExpiresAt.Time.Sub(g.now()); remaining < ttl {
				ttl = remaining
			}
		}
		g.cache.Set(ctx, claims.Subject, document, ttl)
	}

	return checkActive(document)
}

// Evict drops the cached copy of an identity so the next request reads the
// store again. Without a cache it does nothing.
func (g *gate) Evict(ctx context.Context, identityId string) {
	if g.cache == nil {
		return
	}
	g.cache.Delete(ctx, identityId)
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}

func checkActive(document *identity.Document) (*identity.Document, error) {
	if !document.IsActive {
		return nil, cerror.NewError(fiber.StatusUnauthorized, MessageIdentityInactive, zap.String("userId", document.Id)).
			SetSeverity(zapcore.WarnLevel)
	}

	return document, nil
}
