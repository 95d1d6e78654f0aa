package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"

	"fleet-api/pkg/cerror"
	"fleet-api/pkg/jwt_generator"
	"fleet-api/pkg/logger"
)

const (
	PasswordResetTtl = 30 * time.Minute

	MessageInvalidCredentials   = "invalid credentials"
	MessageDeactivated          = "your account has been deactivated"
	MessageInvalidRefreshToken  = "invalid or expired refresh token"
	MessageInvalidResetToken    = "invalid or expired reset token"
	MessageNoIdentityWithEmail  = "no user found with this email"
	MessageCannotDeactivateSelf = "you cannot change your own status"
)

type Service interface {
	Register(ctx context.Context, payload *RegisterPayload) (*AuthResponse, error)
	Login(ctx context.Context, payload *LoginPayload) (*AuthResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, identityId string) error
	Me(ctx context.Context, identityId string) (*Document, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, payload *ResetPasswordPayload) error
	CreateIdentity(ctx context.Context, payload *CreateIdentityPayload) (*Document, error)
	SetActive(ctx context.Context, actorId, identityId string, isActive bool) (*Document, error)
}

// Evictor drops cached copies of an identity once its status changed.
type Evictor interface {
	Evict(ctx context.Context, identityId string)
}

type ServiceOption func(s *service)

func WithEvictor(evictor Evictor) ServiceOption {
	return func(s *service) {
		s.evictor = evictor
	}
}

type service struct {
	identityRepository Repository
	jwtGenerator       jwt_generator.JwtGenerator
	evictor            Evictor
	now                func() time.Time
}

func NewService(
	identityRepository Repository,
	jwtGenerator jwt_generator.JwtGenerator,
	options ...ServiceOption,
) Service {
	s := &service{
		identityRepository: identityRepository,
		jwtGenerator:       jwtGenerator,
		now:                time.Now,
	}
	for _, option := range options {
		option(s)
	}

	return s
}

func (s *service) Register(ctx context.Context, payload *RegisterPayload) (*AuthResponse, error) {
	role := payload.Role
	if role == "" {
		role = RoleStaff
	}

	document, err := s.insert(ctx, payload.Name, payload.Email, payload.Password, payload.Phone, role)
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(document)
	if err != nil {
		return nil, err
	}

	err = s.identityRepository.SetRefreshToken(ctx, document.Id, tokens.RefreshToken, nil)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         document,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (s *service) Login(ctx context.Context, payload *LoginPayload) (*AuthResponse, error) {
	email := NormalizeEmail(payload.Email)
	document, err := s.identityRepository.FindIdentityWithEmail(ctx, email)
	if isNotFound(err) {
		return nil, cerror.NewError(
			fiber.StatusUnauthorized,
			MessageInvalidCredentials,
			zap.String("email", email),
		).SetSeverity(zapcore.WarnLevel)
	}
	if err != nil {
		return nil, err
	}

	if !document.IsActive {
		return nil, cerror.NewError(
			fiber.StatusForbidden,
			MessageDeactivated,
			zap.String("userId", document.Id),
		).SetSeverity(zapcore.WarnLevel)
	}

	err = bcrypt.CompareHashAndPassword([]byte(document.Password), []byte(payload.Password))
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusUnauthorized,
			MessageInvalidCredentials,
			zap.String("userId", document.Id),
		).SetSeverity(zapcore.WarnLevel)
	}

	tokens, err := s.issueTokens(document)
	if err != nil {
		return nil, err
	}

	lastLogin := s.now().UTC()
	err = s.identityRepository.SetRefreshToken(ctx, document.Id, tokens.RefreshToken, &lastLogin)
	if err != nil {
		return nil, err
	}
	document.LastLogin = &lastLogin

	return &AuthResponse{
		User:         document,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshAccessToken only accepts the refresh token currently stored on the
// identity, so a newer login silently revokes older refresh tokens.
func (s *service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtGenerator.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", cerror.NewError(
			fiber.StatusUnauthorized,
			MessageInvalidRefreshToken,
			zap.Error(err),
		).SetSeverity(zapcore.WarnLevel)
	}

	document, err := s.identityRepository.FindIdentityWithId(ctx, claims.Subject)
	if isNotFound(err) {
		return "", cerror.NewError(
			fiber.StatusUnauthorized,
			MessageInvalidRefreshToken,
			zap.String("userId", claims.Subject),
		).SetSeverity(zapcore.WarnLevel)
	}
	if err != nil {
		return "", err
	}

	if !document.IsActive || document.RefreshToken == "" || document.RefreshToken != refreshToken {
		return "", cerror.NewError(
			fiber.StatusUnauthorized,
			MessageInvalidRefreshToken,
			zap.String("userId", document.Id),
		).SetSeverity(zapcore.WarnLevel)
	}

	accessToken, err := s.jwtGenerator.GenerateAccessToken(document.Id, string(document.Role))
	if err != nil {
		return "", cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while generate access token",
			zap.Error(err),
		)
	}

	return accessToken, nil
}

func (s *service) Logout(ctx context.Context, identityId string) error {
	return s.identityRepository.UnsetRefreshToken(ctx, identityId)
}

func (s *service) Me(ctx context.Context, identityId string) (*Document, error) {
	return s.identityRepository.FindIdentityWithId(ctx, identityId)
}

// ForgotPassword returns the plain reset token. Only its sha256 is stored.
func (s *service) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	document, err := s.identityRepository.FindIdentityWithEmail(ctx, email)
	if isNotFound(err) {
		return "", cerror.NewError(
			fiber.StatusNotFound,
			MessageNoIdentityWithEmail,
			zap.String("email", email),
		).SetSeverity(zapcore.WarnLevel)
	}
	if err != nil {
		return "", err
	}

	resetToken, err := generateResetToken()
	if err != nil {
		return "", cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while generate reset token",
			zap.Error(err),
		)
	}

	expiresAt := s.now().UTC().Add(PasswordResetTtl)
	err = s.identityRepository.SetPasswordResetToken(ctx, document.Id, HashResetToken(resetToken), expiresAt)
	if err != nil {
		return "", err
	}

	logger.FromContext(ctx).Infow("password reset token issued", zap.String("userId", document.Id))
	return resetToken, nil
}

func (s *service) ResetPassword(ctx context.Context, payload *ResetPasswordPayload) error {
	document, err := s.identityRepository.FindIdentityWithResetToken(ctx, HashResetToken(payload.Token), s.now().UTC())
	if isNotFound(err) {
		return cerror.NewError(
			fiber.StatusBadRequest,
			MessageInvalidResetToken,
		).SetSeverity(zapcore.WarnLevel)
	}
	if err != nil {
		return err
	}

	hashedPassword, err := hashPassword(payload.NewPassword)
	if err != nil {
		return err
	}

	return s.identityRepository.UpdatePassword(ctx, document.Id, hashedPassword)
}

func (s *service) CreateIdentity(ctx context.Context, payload *CreateIdentityPayload) (*Document, error) {
	return s.insert(ctx, payload.Name, payload.Email, payload.Password, payload.Phone, payload.Role)
}

func (s *service) SetActive(ctx context.Context, actorId, identityId string, isActive bool) (*Document, error) {
	if actorId == identityId {
		return nil, cerror.NewError(
			fiber.StatusBadRequest,
			MessageCannotDeactivateSelf,
			zap.String("userId", identityId),
		).SetSeverity(zapcore.WarnLevel)
	}

	err := s.identityRepository.SetActive(ctx, identityId, isActive)
	if err != nil {
		return nil, err
	}
	if s.evictor != nil {
		s.evictor.Evict(ctx, identityId)
	}

	return s.identityRepository.FindIdentityWithId(ctx, identityId)
}

func (s *service) insert(
	ctx context.Context,
	name, email, password, phone string,
	role Role,
) (*Document, error) {
	email = NormalizeEmail(email)
	if !role.Valid() {
		return nil, cerror.NewError(
			fiber.StatusBadRequest,
			"invalid role",
			zap.String("role", string(role)),
		).SetKind(cerror.KindValidationFailed).
			SetSeverity(zapcore.WarnLevel).
			SetDetails(map[string]string{"role": "oneof=admin manager driver staff"})
	}

	exists, err := s.identityRepository.ExistsWithEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, cerror.NewError(
			fiber.StatusBadRequest,
			MessageEmailTaken,
			zap.String("email", email),
		).SetKind(cerror.KindConflict).SetSeverity(zapcore.WarnLevel)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	document := &Document{
		Id:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		Phone:     phone,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.identityRepository.InsertIdentity(ctx, document)
	if err != nil {
		return nil, err
	}

	return document, nil
}

func (s *service) issueTokens(document *Document) (*jwt_generator.Tokens, error) {
	accessToken, err := s.jwtGenerator.GenerateAccessToken(document.Id, string(document.Role))
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while generate access token",
			zap.Error(err),
		)
	}

	refreshToken, err := s.jwtGenerator.GenerateRefreshToken(document.Id)
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while generate refresh token",
			zap.Error(err),
		)
	}

	return &jwt_generator.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while generate hash from password",
			zap.Error(err),
		)
	}

	return string(hashedPassword), nil
}

func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateResetToken() (string, error) {
	buffer := make([]byte, 32)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return hex.EncodeToString(buffer), nil
}

func isNotFound(err error) bool {
	return cerror.IsKind(err, cerror.KindNotFound)
}
