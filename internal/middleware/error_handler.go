package middleware

import (
	"wealthdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Errors returned by handlers are
// rendered in the standard error format with the status their kind maps to.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return response.FromError(c, err)
}
