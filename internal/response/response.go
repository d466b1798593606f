package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "Internal server error"

type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data})
}

// Done answers a successful request that carries no payload.
func Done(c *fiber.Ctx) error {
	return c.JSON(Envelope{Success: true})
}

// ErrorHandler renders client errors with their message and hides everything
// else behind a generic 500.
func ErrorHandler(zl zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(Envelope{Success: false, Message: fe.Message})
		}

		zl.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")

		return c.Status(fiber.StatusInternalServerError).JSON(Envelope{Success: false, Error: internalErrorMessage})
	}
}
