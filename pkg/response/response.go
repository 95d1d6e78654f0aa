package response

import (
	"github.com/gofiber/fiber/v2"
)

// Body is the envelope of every HTTP response. Clients branch on Success.
type Body struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Stack   string            `json:"stack,omitempty"`
}

func Send(ctx *fiber.Ctx, status int, message string, data interface{}) error {
	return ctx.
		Status(status).
		JSON(Body{
			Success: true,
			Message: message,
			Data:    data,
		})
}

func OK(ctx *fiber.Ctx, message string, data interface{}) error {
	return Send(ctx, fiber.StatusOK, message, data)
}

func Created(ctx *fiber.Ctx, message string, data interface{}) error {
	return Send(ctx, fiber.StatusCreated, message, data)
}
