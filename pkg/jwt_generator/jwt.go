package jwt_generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"fleet-api/pkg/config"
)

type JwtGenerator interface {
	GenerateAccessToken(identityId, role string) (string, error)
	GenerateRefreshToken(identityId string) (string, error)
	VerifyAccessToken(rawJwtToken string) (*Claims, error)
	VerifyRefreshToken(rawJwtToken string) (*Claims, error)
}

type Option func(generator *jwtGenerator)

// WithClock replaces time.Now, which lets expiry be tested without sleeping.
func WithClock(now func() time.Time) Option {
	return func(generator *jwtGenerator) {
		generator.now = now
	}
}

type jwtGenerator struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTtl     time.Duration
	refreshTtl    time.Duration
	now           func() time.Time
}

func NewJwtGenerator(jwtConfig config.JwtConfig, options ...Option) (JwtGenerator, error) {
	if len(jwtConfig.AccessSecret) == 0 || len(jwtConfig.RefreshSecret) == 0 {
		return nil, errors.New("jwt secrets must not be empty")
	}

	if string(jwtConfig.AccessSecret) == string(jwtConfig.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}

	if jwtConfig.AccessTtl <= 0 || jwtConfig.RefreshTtl <= 0 {
		return nil, errors.New("jwt expirations must be positive")
	}

	generator := &jwtGenerator{
		accessSecret:  jwtConfig.AccessSecret,
		refreshSecret: jwtConfig.RefreshSecret,
		accessTtl:     jwtConfig.AccessTtl,
		refreshTtl:    jwtConfig.RefreshTtl,
		now:           time.Now,
	}
	for _, option := range options {
		option(generator)
	}

	return generator, nil
}

func (jwtGenerator *jwtGenerator) GenerateAccessToken(identityId, role string) (string, error) {
	now := jwtGenerator.now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   identityId,
			Issuer:    IssuerDefault,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtGenerator.accessTtl)),
		},
	}

	return jwtGenerator.sign(claims, jwtGenerator.accessSecret)
}

func (jwtGenerator *jwtGenerator) GenerateRefreshToken(identityId string) (string, error) {
	now := jwtGenerator.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   identityId,
			Issuer:    IssuerDefault,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtGenerator.refreshTtl)),
		},
	}

	return jwtGenerator.sign(claims, jwtGenerator.refreshSecret)
}

func (jwtGenerator *jwtGenerator) VerifyAccessToken(rawJwtToken string) (*Claims, error) {
	claims, err := jwtGenerator.verify(rawJwtToken, jwtGenerator.accessSecret)
	if err != nil {
		return nil, err
	}

	if claims.Role == "" {
		return nil, fmt.Errorf("%w: access token without role", ErrTokenInvalid)
	}

	return claims, nil
}

func (jwtGenerator *jwtGenerator) VerifyRefreshToken(rawJwtToken string) (*Claims, error) {
	return jwtGenerator.verify(rawJwtToken, jwtGenerator.refreshSecret)
}

func (jwtGenerator *jwtGenerator) sign(claims Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

func (jwtGenerator *jwtGenerator) verify(rawJwtToken string, secret []byte) (*Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(rawJwtToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("jwt token is not valid signature")
		}

		return secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	isValidIssuer := claims.VerifyIssuer(IssuerDefault, true)
	if !isValidIssuer {
		return nil, fmt.Errorf("%w: ambiguous jwt token issuer", ErrTokenInvalid)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: jwt token without subject", ErrTokenInvalid)
	}

	now := jwtGenerator.now().UTC()
	isJwtTokenAlive := claims.VerifyExpiresAt(now, true)
	if !isJwtTokenAlive {
		return nil, ErrTokenExpired
	}

	isTokenStarted := claims.VerifyNotBefore(now, false)
	if !isTokenStarted {
		return nil, fmt.Errorf("%w: jwt token is not started", ErrTokenInvalid)
	}

	return &claims, nil
}
