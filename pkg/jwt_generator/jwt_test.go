//go:build unit

package jwt_generator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-api/pkg/config"
)

const TestRole = "manager"

var (
	TestIdentityId = uuid.New().String()

	TestJwtConfig = config.JwtConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTtl:     15 * time.Minute,
		RefreshTtl:    7 * 24 * time.Hour,
	}
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func TestNewJwtGenerator(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		jwtGenerator, err := NewJwtGenerator(TestJwtConfig)

		assert.NoError(t, err)
		assert.Implements(t, (*JwtGenerator)(nil), jwtGenerator)
	})

	t.Run("when secrets are equal should return error", func(t *testing.T) {
		cfg := TestJwtConfig
		cfg.RefreshSecret = cfg.AccessSecret

		jwtGenerator, err := NewJwtGenerator(cfg)

		assert.Error(t, err)
		assert.Nil(t, jwtGenerator)
	})

	t.Run("when secret is empty should return error", func(t *testing.T) {
		cfg := TestJwtConfig
		cfg.AccessSecret = nil

		jwtGenerator, err := NewJwtGenerator(cfg)

		assert.Error(t, err)
		assert.Nil(t, jwtGenerator)
	})
}

func TestJwtGenerator_VerifyAccessToken(t *testing.T) {
	t.Run("round trip returns embedded identity and role", func(t *testing.T) {
		jwtGenerator, err := NewJwtGenerator(TestJwtConfig)
		require.NoError(t, err)

		token, err := jwtGenerator.GenerateAccessToken(TestIdentityId, TestRole)
		require.NoError(t, err)

		claims, err := jwtGenerator.VerifyAccessToken(token)

		assert.NoError(t, err)
		assert.Equal(t, TestIdentityId, claims.Subject)
		assert.Equal(t, TestRole, claims.Role)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("should stay valid until expiry and fail right after it", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}
		jwtGenerator, err := NewJwtGenerator(TestJwtConfig, WithClock(clock.Now))
		require.NoError(t, err)

		token, err := jwtGenerator.GenerateAccessToken(TestIdentityId, TestRole)
		require.NoError(t, err)

		clock.now = clock.now.Add(TestJwtConfig.AccessTtl - time.Second)
		_, err = jwtGenerator.VerifyAccessToken(token)
		assert.NoError(t, err)

		clock.now = clock.now.Add(time.Second + time.Millisecond)
		_, err = jwtGenerator.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("refresh token is not accepted as access token", func(t *testing.T) {
		jwtGenerator, err := NewJwtGenerator(TestJwtConfig)
		require.NoError(t, err)

		refreshToken, err := jwtGenerator.GenerateRefreshToken(TestIdentityId)
		require.NoError(t, err)

		_, err = jwtGenerator.VerifyAccessToken(refreshToken)

		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("tampered token is invalid", func(t *testing.T) {
		jwtGenerator, err := NewJwtGenerator(TestJwtConfig)
		require.NoError(t, err)

		token, err := jwtGenerator.GenerateAccessToken(TestIdentityId, TestRole)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

		_, err = jwtGenerator.VerifyAccessToken(tampered)

		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("malformed token is invalid", func(t *testing.T) {
		jwtGenerator, err := NewJwtGenerator(TestJwtConfig)
		require.NoError(t, err)

		_, err = jwtGenerator.VerifyAccessToken("abcd.abcd.abcd")

		assert.ErrorIs(t, err, ErrTokenInvalid)
		assert.False(t, errors.Is(err, ErrTokenExpired))
	})

	t.Run("token signed with none algorithm is invalid", func(t *testing.T) {
		jwtGenerator, err := NewJwtGenerator(TestJwtConfig)
		require.NoError(t, err)

		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			Role: TestRole,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   TestIdentityId,
				Issuer:    IssuerDefault,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = jwtGenerator.VerifyAccessToken(token)

		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestJwtGenerator_VerifyRefreshToken(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		jwtGenerator, err := NewJwtGenerator(TestJwtConfig)
		require.NoError(t, err)

		token, err := jwtGenerator.GenerateRefreshToken(TestIdentityId)
		require.NoError(t, err)

		claims, err := jwtGenerator.VerifyRefreshToken(token)

		assert.NoError(t, err)
		assert.Equal(t, TestIdentityId, claims.Subject)
		assert.Empty(t, claims.Role)
	})

	t.Run("two refresh tokens issued together are distinct", func(t *testing.T) {
		jwtGenerator, err := NewJwtGenerator(TestJwtConfig)
		require.NoError(t, err)

		first, err := jwtGenerator.GenerateRefreshToken(TestIdentityId)
		require.NoError(t, err)
		second, err := jwtGenerator.GenerateRefreshToken(TestIdentityId)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		jwtGenerator, err := NewJwtGenerator(TestJwtConfig)
		require.NoError(t, err)

		accessToken, err := jwtGenerator.GenerateAccessToken(TestIdentityId, TestRole)
		require.NoError(t, err)

		_, err = jwtGenerator.VerifyRefreshToken(accessToken)

		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		clock := &fakeClock{now: time.Now()}
		jwtGenerator, err := NewJwtGenerator(TestJwtConfig, WithClock(clock.Now))
		require.NoError(t, err)

		token, err := jwtGenerator.GenerateRefreshToken(TestIdentityId)
		require.NoError(t, err)

		clock.now = clock.now.Add(TestJwtConfig.RefreshTtl + time.Second)
		_, err = jwtGenerator.VerifyRefreshToken(token)

		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}
