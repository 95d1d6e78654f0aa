package request

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fleet-api/pkg/cerror"
)

var validate = validator.New()

// ParseBody decodes the json body into payload and validates its struct tags.
func ParseBody(ctx *fiber.Ctx, payload interface{}) error {
	err := ctx.BodyParser(payload)
	if err != nil {
		return cerror.NewError(
			fiber.StatusBadRequest,
			cerror.MessageMalformedBody,
			zap.Error(err),
		).SetKind(cerror.KindValidationFailed).SetSeverity(zap.WarnLevel)
	}

	return Validate(payload)
}

func Validate(payload interface{}) error {
	err := validate.Struct(payload)
	if err != nil {
		return cerror.FromValidation(err)
	}

	return nil
}
