package serverutils

import (
	"errors"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the error envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, log, err)
	}
}

func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	if appErr, ok := apperror.As(err); ok {
		status := appErr.HTTPStatus()
		resp := ErrorResponse(status, appErr.Message)
		resp.Errors = appErr.Fields

		// Server-side failures carry the underlying cause.
		if status >= fiber.StatusInternalServerError {
			resp.Detail = appErr.Detail()
			log.Error(constant.ModuleHTTP, "Request failed", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"kind":   string(appErr.Kind),
				"error":  err,
			})
		}
		return ctx.Status(status).JSON(resp)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	log.Error(constant.ModuleHTTP, "Unhandled error", map[string]interface{}{
		"path":   ctx.Path(),
		"method": ctx.Method(),
		"error":  err,
	})
	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}
