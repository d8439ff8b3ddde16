package handlers

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"threadbrief/errors"
)

// ErrorHandler converts application errors into JSON responses and logs the
// underlying cause server-side.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var appErr *errors.AppError
	var fiberErr *fiber.Error

	switch {
	case stderrors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
	case stderrors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	entry := logrus.WithFields(logrus.Fields{
		"status":     code,
		"method":     c.Method(),
		"path":       c.Path(),
		"request_id": c.Locals("requestid"),
	})
	if code >= 500 {
		entry.WithError(err).Error("Request failed")
	} else {
		entry.WithError(err).Warn("Request rejected")
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
