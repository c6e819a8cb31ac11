package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/rainflow/internal/logging"
	"github.com/soltixdb/rainflow/internal/models"
	"github.com/soltixdb/rainflow/internal/services"
)

// ErrorHandler returns the application error handler. Service errors keep
// their code, fiber errors get a code derived from their status and anything
// else is reported as an opaque 500.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, detail := describeError(err)

		fields := []interface{}{
			"path", c.Path(),
			"method", c.Method(),
			"status", status,
			"error", err,
		}
		log := logger.WithContext(c.UserContext())
		if status >= fiber.StatusInternalServerError {
			log.Error("Request error", fields...)
		} else {
			log.Warn("Request error", fields...)
		}

		return c.Status(status).JSON(models.ErrorResponse{Error: detail})
	}
}

func describeError(err error) (int, models.ErrorDetail) {
	if svcErr, ok := services.AsServiceError(err); ok {
		return ServiceStatus(svcErr.Code), models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Details: svcErr.Details,
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, models.ErrorDetail{
			Code:    statusCode(fe.Code),
			Message: fe.Message,
		}
	}

	return fiber.StatusInternalServerError, models.ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "Internal Server Error",
	}
}

// ServiceStatus maps a service error code to an HTTP status
func ServiceStatus(code string) int {
	switch code {
	case services.CodeInvalidConfiguration, services.CodeInvalidSeries:
		return fiber.StatusBadRequest
	case services.CodeSeriesTooLarge:
		return fiber.StatusRequestEntityTooLarge
	case services.CodeRequestCancelled:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusUnsupportedMediaType, fiber.StatusUnprocessableEntity:
		return "INVALID_CONTENT_TYPE"
	case fiber.StatusRequestTimeout, fiber.StatusServiceUnavailable:
		return "UNAVAILABLE"
	default:
		return "ERROR"
	}
}
