package identity

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap/zapcore"

	"fleet-api/pkg/cerror"
)

// LocalsKey is where the authenticated identity lives in fiber locals.
const LocalsKey = "identity"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleDriver  Role = "driver"
	RoleStaff   Role = "staff"
)

var Roles = []Role{RoleAdmin, RoleManager, RoleDriver, RoleStaff}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDriver, RoleStaff:
		return true
	}
	return false
}

// CanManage reports whether the role may mutate shared business records.
func (r Role) CanManage() bool {
	switch r {
	case RoleAdmin, RoleManager:
		return true
	case RoleDriver, RoleStaff:
		return false
	}
	return false
}

func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleManager, RoleDriver, RoleStaff:
		return false
	}
	return false
}

type Document struct {
	Id                   string     `bson:"_id" json:"id"`
	Name                 string     `bson:"name" json:"name"`
	Email                string     `bson:"email" json:"email"`
	Password             string     `bson:"password" json:"-"`
	Phone                string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Role                 Role       `bson:"role" json:"role"`
	IsActive             bool       `bson:"isActive" json:"isActive"`
	LastLogin            *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	RefreshToken         string     `bson:"refreshToken,omitempty" json:"-"`
	PasswordResetToken   string     `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires *time.Time `bson:"passwordResetExpires,omitempty" json:"-"`
	CreatedAt            time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time  `bson:"updatedAt" json:"updatedAt"`
}

type RegisterPayload struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Role     Role   `json:"role" validate:"omitempty,oneof=admin manager driver staff"`
}

type CreateIdentityPayload struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Role     Role   `json:"role" validate:"required,oneof=admin manager driver staff"`
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenPayload struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ForgotPasswordPayload struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordPayload struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type StatusPayload struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type AuthResponse struct {
	User         *Document `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type ResetTokenResponse struct {
	ResetToken string `json:"resetToken"`
}

// Gate protects routes. Authenticate must run before Authorize.
type Gate interface {
	Authenticate() fiber.Handler
	Authorize(roles ...Role) fiber.Handler
}

// CurrentIdentity returns the identity stored by the authentication filter.
func CurrentIdentity(ctx *fiber.Ctx) (*Document, bool) {
	document, ok := ctx.Locals(LocalsKey).(*Document)
	return document, ok && document != nil
}

// RequireCurrentIdentity is CurrentIdentity for handlers mounted behind the
// authentication filter.
func RequireCurrentIdentity(ctx *fiber.Ctx) (*Document, error) {
	current, ok := CurrentIdentity(ctx)
	if !ok {
		return nil, cerror.NewError(fiber.StatusUnauthorized, cerror.MessageNotAuthorized).
			SetSeverity(zapcore.WarnLevel)
	}

	return current, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
