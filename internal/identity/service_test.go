//go:build unit

package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fleet-api/pkg/cerror"
	"fleet-api/pkg/config"
	"fleet-api/pkg/jwt_generator"
)

const (
	TestIdentityId = "3f1c2b8e-6a5d-4f7e-9b0a-1c2d3e4f5a6b"
	TestName       = "Deniz Kaya"
	TestEmail      = "dispatch@fleet.io"
	TestPassword   = "s3cret-pass"
	TestPhone      = "+905551112233"
)

var TestJwtConfig = config.JwtConfig{
	AccessSecret:  []byte("access-secret"),
	RefreshSecret: []byte("refresh-secret"),
	AccessTtl:     15 * time.Minute,
	RefreshTtl:    7 * 24 * time.Hour,
}

func newTestJwtGenerator(t *testing.T) jwt_generator.JwtGenerator {
	jwtGenerator, err := jwt_generator.NewJwtGenerator(TestJwtConfig)
	require.NoError(t, err)
	return jwtGenerator
}

func newTestDocument(t *testing.T) *Document {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return &Document{
		Id:       TestIdentityId,
		Name:     TestName,
		Email:    TestEmail,
		Password: string(hashedPassword),
		Role:     RoleManager,
		IsActive: true,
	}
}

func TestNewService(t *testing.T) {
	identityService := NewService(nil, nil)

	assert.Implements(t, (*Service)(nil), identityService)
}

func TestService_Register(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	t.Run("happy path", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		jwtGenerator := newTestJwtGenerator(t)

		var inserted *Document
		mockRepository.EXPECT().ExistsWithEmail(gomock.Any(), TestEmail).Return(false, nil)
		mockRepository.EXPECT().InsertIdentity(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, document *Document) error {
				inserted = document
				return nil
			})
		mockRepository.EXPECT().SetRefreshToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil)

		identityService := NewService(mockRepository, jwtGenerator)
		authResponse, err := identityService.Register(context.Background(), &RegisterPayload{
			Name:     TestName,
			Email:    "  Dispatch@Fleet.IO ",
			Password: TestPassword,
			Phone:    TestPhone,
		})

		require.NoError(t, err)
		assert.Equal(t, TestEmail, inserted.Email)
		assert.Equal(t, RoleStaff, inserted.Role)
		assert.True(t, inserted.IsActive)
		assert.NotEqual(t, TestPassword, inserted.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(inserted.Password), []byte(TestPassword)))

		claims, err := jwtGenerator.VerifyAccessToken(authResponse.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, inserted.Id, claims.Subject)
		assert.Equal(t, string(RoleStaff), claims.Role)
	})

	t.Run("when email is already registered should return 400 and not insert", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().ExistsWithEmail(gomock.Any(), TestEmail).Return(true, nil)
		mockRepository.EXPECT().InsertIdentity(gomock.Any(), gomock.Any()).Times(0)

		identityService := NewService(mockRepository, newTestJwtGenerator(t))
		authResponse, err := identityService.Register(context.Background(), &RegisterPayload{
			Name:     TestName,
			Email:    TestEmail,
			Password: TestPassword,
		})

		assert.Nil(t, authResponse)
		cerr := cerror.From(err)
		assert.Equal(t, fiber.StatusBadRequest, cerr.HttpStatusCode)
		assert.Equal(t, cerror.KindConflict, cerr.Kind)
	})

	t.Run("when error occurred while insert user should return error", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().ExistsWithEmail(gomock.Any(), TestEmail).Return(false, nil)
		mockRepository.EXPECT().InsertIdentity(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

		identityService := NewService(mockRepository, newTestJwtGenerator(t))
		_, err := identityService.Register(context.Background(), &RegisterPayload{
			Name:     TestName,
			Email:    TestEmail,
			Password: TestPassword,
		})

		assert.Error(t, err)
	})
}

func TestService_Login(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	t.Run("happy path stores the issued refresh token verbatim", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		jwtGenerator := newTestJwtGenerator(t)
		document := newTestDocument(t)

		var storedRefreshToken string
		mockRepository.EXPECT().FindIdentityWithEmail(gomock.Any(), TestEmail).Return(document, nil)
		mockRepository.EXPECT().SetRefreshToken(gomock.Any(), TestIdentityId, gomock.Any(), gomock.Not(gomock.Nil())).
			DoAndReturn(func(_ context.Context, _ string, refreshToken string, _ *time.Time) error {
				storedRefreshToken = refreshToken
				return nil
			})

		identityService := NewService(mockRepository, jwtGenerator)
		authResponse, err := identityService.Login(context.Background(), &LoginPayload{
			Email:    TestEmail,
			Password: TestPassword,
		})

		require.NoError(t, err)
		assert.Equal(t, storedRefreshToken, authResponse.RefreshToken)
		assert.NotNil(t, authResponse.User.LastLogin)

		claims, err := jwtGenerator.VerifyAccessToken(authResponse.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, TestIdentityId, claims.Subject)
		assert.Equal(t, string(RoleManager), claims.Role)
	})

	t.Run("when user does not exist should return 401", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().FindIdentityWithEmail(gomock.Any(), TestEmail).
			Return(nil, cerror.NewError(fiber.StatusNotFound, MessageIdentityNotFound))

		identityService := NewService(mockRepository, newTestJwtGenerator(t))
		_, err := identityService.Login(context.Background(), &LoginPayload{
			Email:    TestEmail,
			Password: TestPassword,
		})

		assert.Equal(t, fiber.StatusUnauthorized, cerror.From(err).HttpStatusCode)
	})

	t.Run("when password does not match should return 401", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().FindIdentityWithEmail(gomock.Any(), TestEmail).Return(newTestDocument(t), nil)
		mockRepository.EXPECT().SetRefreshToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		identityService := NewService(mockRepository, newTestJwtGenerator(t))
		_, err := identityService.Login(context.Background(), &LoginPayload{
			Email:    TestEmail,
			Password: "wrong-password",
		})

		cerr := cerror.From(err)
		assert.Equal(t, fiber.StatusUnauthorized, cerr.HttpStatusCode)
		assert.Equal(t, MessageInvalidCredentials, cerr.LogMessage)
	})

	t.Run("when user is deactivated should return 403", func(t *testing.T) {
		document := newTestDocument(t)
		document.IsActive = false

		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().FindIdentityWithEmail(gomock.Any(), TestEmail).Return(document, nil)

		identityService := NewService(mockRepository, newTestJwtGenerator(t))
		_, err := identityService.Login(context.Background(), &LoginPayload{
			Email:    TestEmail,
			Password: TestPassword,
		})

		assert.Equal(t, fiber.StatusForbidden, cerror.From(err).HttpStatusCode)
	})
}

func TestService_RefreshAccessToken(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	t.Run("happy path", func(t *testing.T) {
		jwtGenerator := newTestJwtGenerator(t)
		refreshToken, err := jwtGenerator.GenerateRefreshToken(TestIdentityId)
		require.NoError(t, err)

		document := newTestDocument(t)
		document.RefreshToken = refreshToken

		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().FindIdentityWithId(gomock.Any(), TestIdentityId).Return(document, nil)

		identityService := NewService(mockRepository, jwtGenerator)
		accessToken, err := identityService.RefreshAccessToken(context.Background(), refreshToken)

		require.NoError(t, err)
		claims, err := jwtGenerator.VerifyAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, TestIdentityId, claims.Subject)
	})

	t.Run("only the last issued refresh token is accepted", func(t *testing.T) {
		jwtGenerator := newTestJwtGenerator(t)
		firstLogin, err := jwtGenerator.GenerateRefreshToken(TestIdentityId)
		require.NoError(t, err)
		secondLogin, err := jwtGenerator.GenerateRefreshToken(TestIdentityId)
		require.NoError(t, err)

		document := newTestDocument(t)
		document.RefreshToken = secondLogin

		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().FindIdentityWithId(gomock.Any(), TestIdentityId).Return(document, nil).Times(2)

		identityService := NewService(mockRepository, jwtGenerator)

		_, err = identityService.RefreshAccessToken(context.Background(), firstLogin)
		assert.Equal(t, fiber.StatusUnauthorized, cerror.From(err).HttpStatusCode)

		_, err = identityService.RefreshAccessToken(context.Background(), secondLogin)
		assert.NoError(t, err)
	})

	t.Run("when refresh token was cleared by logout should return 401", func(t *testing.T) {
		jwtGenerator := newTestJwtGenerator(t)
		refreshToken, err := jwtGenerator.GenerateRefreshToken(TestIdentityId)
		require.NoError(t, err)

		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().FindIdentityWithId(gomock.Any(), TestIdentityId).Return(newTestDocument(t), nil)

		identityService := NewService(mockRepository, jwtGenerator)
		_, err = identityService.RefreshAccessToken(context.Background(), refreshToken)

		assert.Equal(t, fiber.StatusUnauthorized, cerror.From(err).HttpStatusCode)
	})

	t.Run("when access token is presented as refresh token should return 401", func(t *testing.T) {
		jwtGenerator := newTestJwtGenerator(t)
		accessToken, err := jwtGenerator.GenerateAccessToken(TestIdentityId, string(RoleManager))
		require.NoError(t, err)

		identityService := NewService(NewMockRepository(mockController), jwtGenerator)
		_, err = identityService.RefreshAccessToken(context.Background(), accessToken)

		assert.Equal(t, fiber.StatusUnauthorized, cerror.From(err).HttpStatusCode)
	})
}

func TestService_Logout(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	t.Run("calling logout twice is not an error", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().UnsetRefreshToken(gomock.Any(), TestIdentityId).Return(nil).Times(2)

		identityService := NewService(mockRepository, newTestJwtGenerator(t))

		assert.NoError(t, identityService.Logout(context.Background(), TestIdentityId))
		assert.NoError(t, identityService.Logout(context.Background(), TestIdentityId))
	})
}

func TestService_ForgotAndResetPassword(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	t.Run("reset token is stored hashed and accepted once", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		mockRepository := NewMockRepository(mockController)

		var storedHash string
		mockRepository.EXPECT().FindIdentityWithEmail(gomock.Any(), TestEmail).Return(newTestDocument(t), nil)
		mockRepository.EXPECT().SetPasswordResetToken(gomock.Any(), TestIdentityId, gomock.Any(), now.Add(PasswordResetTtl)).
			DoAndReturn(func(_ context.Context, _ string, tokenHash string, _ time.Time) error {
				storedHash = tokenHash
				return nil
			})

		identityService := &service{
			identityRepository: mockRepository,
			jwtGenerator:       newTestJwtGenerator(t),
			now:                func() time.Time { return now },
		}

		resetToken, err := identityService.ForgotPassword(context.Background(), TestEmail)
		require.NoError(t, err)
		assert.NotEqual(t, resetToken, storedHash)
		assert.Equal(t, HashResetToken(resetToken), storedHash)

		mockRepository.EXPECT().FindIdentityWithResetToken(gomock.Any(), storedHash, now).Return(newTestDocument(t), nil)
		mockRepository.EXPECT().UpdatePassword(gomock.Any(), TestIdentityId, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, hashedPassword string) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte("brand-new-pass")))
				return nil
			})

		err = identityService.ResetPassword(context.Background(), &ResetPasswordPayload{
			Token:       resetToken,
			NewPassword: "brand-new-pass",
		})
		assert.NoError(t, err)
	})

	t.Run("unknown reset token should return 400", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().FindIdentityWithResetToken(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, cerror.NewError(fiber.StatusNotFound, MessageIdentityNotFound))

		identityService := NewService(mockRepository, newTestJwtGenerator(t))
		err := identityService.ResetPassword(context.Background(), &ResetPasswordPayload{
			Token:       "unknown",
			NewPassword: "brand-new-pass",
		})

		assert.Equal(t, fiber.StatusBadRequest, cerror.From(err).HttpStatusCode)
	})

	t.Run("unknown email should return 404", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().FindIdentityWithEmail(gomock.Any(), TestEmail).
			Return(nil, cerror.NewError(fiber.StatusNotFound, MessageIdentityNotFound))

		identityService := NewService(mockRepository, newTestJwtGenerator(t))
		_, err := identityService.ForgotPassword(context.Background(), TestEmail)

		assert.Equal(t, fiber.StatusNotFound, cerror.From(err).HttpStatusCode)
	})
}

func TestService_CreateIdentity(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	t.Run("happy path", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().ExistsWithEmail(gomock.Any(), TestEmail).Return(false, nil)
		mockRepository.EXPECT().InsertIdentity(gomock.Any(), gomock.Any()).Return(nil)

		identityService := NewService(mockRepository, newTestJwtGenerator(t))
		document, err := identityService.CreateIdentity(context.Background(), &CreateIdentityPayload{
			Name:     TestName,
			Email:    TestEmail,
			Password: TestPassword,
			Role:     RoleDriver,
		})

		require.NoError(t, err)
		assert.Equal(t, RoleDriver, document.Role)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		identityService := NewService(NewMockRepository(mockController), newTestJwtGenerator(t))
		_, err := identityService.CreateIdentity(context.Background(), &CreateIdentityPayload{
			Name:     TestName,
			Email:    TestEmail,
			Password: TestPassword,
			Role:     Role("owner"),
		})

		assert.True(t, cerror.IsKind(err, cerror.KindValidationFailed))
	})
}

func TestService_SetActive(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	t.Run("happy path", func(t *testing.T) {
		document := newTestDocument(t)
		document.IsActive = false

		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().SetActive(gomock.Any(), TestIdentityId, false).Return(nil)
		mockRepository.EXPECT().FindIdentityWithId(gomock.Any(), TestIdentityId).Return(document, nil)

		identityService := NewService(mockRepository, newTestJwtGenerator(t))
		updated, err := identityService.SetActive(context.Background(), "admin-id", TestIdentityId, false)

		require.NoError(t, err)
		assert.False(t, updated.IsActive)
	})

	t.Run("status change evicts the cached identity", func(t *testing.T) {
		document := newTestDocument(t)
		document.IsActive = false

		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().SetActive(gomock.Any(), TestIdentityId, false).Return(nil)
		mockRepository.EXPECT().FindIdentityWithId(gomock.Any(), TestIdentityId).Return(document, nil)

		evictor := &recordingEvictor{}
		identityService := NewService(mockRepository, newTestJwtGenerator(t), WithEvictor(evictor))
		_, err := identityService.SetActive(context.Background(), "admin-id", TestIdentityId, false)

		require.NoError(t, err)
		assert.Equal(t, []string{TestIdentityId}, evictor.evicted)
	})

	t.Run("failed status change evicts nothing", func(t *testing.T) {
		mockRepository := NewMockRepository(mockController)
		mockRepository.EXPECT().SetActive(gomock.Any(), TestIdentityId, false).
			Return(cerror.NewError(fiber.StatusNotFound, MessageIdentityNotFound))

		evictor := &recordingEvictor{}
		identityService := NewService(mockRepository, newTestJwtGenerator(t), WithEvictor(evictor))
		_, err := identityService.SetActive(context.Background(), "admin-id", TestIdentityId, false)

		assert.Error(t, err)
		assert.Empty(t, evictor.evicted)
	})

	t.Run("admin cannot change own status", func(t *testing.T) {
		identityService := NewService(NewMockRepository(mockController), newTestJwtGenerator(t))
		_, err := identityService.SetActive(context.Background(), TestIdentityId, TestIdentityId, false)

		assert.Equal(t, fiber.StatusBadRequest, cerror.From(err).HttpStatusCode)
	})
}

type recordingEvictor struct {
	evicted []string
}

func (e *recordingEvictor) Evict(_ context.Context, identityId string) {
	e.evicted = append(e.evicted, identityId)
}

func TestRole(t *testing.T) {
	for _, role := range Roles {
		assert.True(t, role.Valid())
	}
	assert.False(t, Role("owner").Valid())
	assert.True(t, RoleAdmin.CanManage())
	assert.True(t, RoleManager.CanManage())
	assert.False(t, RoleDriver.CanManage())
	assert.False(t, RoleStaff.CanManage())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleManager.IsAdmin())
}
