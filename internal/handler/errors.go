package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"go-dairy-ledger/pkg/apperror"
	"go-dairy-ledger/pkg/logger"
)

// ErrorHandler renders AppErrors and fiber errors as JSON and logs anything unexpected.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"code":    "HTTP_ERROR",
				"message": fe.Message,
			})
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Code == apperror.CodeInternal {
				log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", appErr.Err)
			}
			body := fiber.Map{"code": appErr.Code, "message": appErr.Message}
			if len(appErr.Details) > 0 {
				body["details"] = appErr.Details
			}
			return c.Status(appErr.HTTPStatus).JSON(body)
		}

		log.Errorw("unexpected error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    apperror.CodeInternal,
			"message": "Internal server error",
		})
	}
}
