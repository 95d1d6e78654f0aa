package cerror

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"fleet-api/pkg/logger"
	"fleet-api/pkg/response"
)

// Middleware is the production error handler: no error chains leak to clients.
var Middleware = NewMiddleware(true)

func NewMiddleware(isProduction bool) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		cerr := From(err)

		log := logger.FromContext(ctx.Context()).Desugar()
		for _, field := range cerr.LogFields {
			log = log.With(field)
		}
		log.Log(cerr.LogSeverity, cerr.LogMessage)

		body := response.Body{
			Success: false,
			Message: cerr.LogMessage,
			Errors:  cerr.Details,
		}
		if !isProduction && cerr.Kind == KindInternal {
			body.Stack = fmt.Sprintf("%+v", err)
		}

		return ctx.
			Status(cerr.HttpStatusCode).
			JSON(body)
	}
}
