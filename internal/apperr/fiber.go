package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler translates errors into the JSON error envelope at the request
// boundary. Classified errors keep their code so API clients can branch on it;
// plain fiber errors keep their status; anything else is a dependency failure.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return c.Status(Status(appErr.Code)).JSON(fiber.Map{
			"code":    appErr.Code,
			"message": appErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    CodeDependency,
		"message": "internal server error",
	})
}
