package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pitchvault/internal/domain"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler maps the domain error taxonomy to HTTP. Typed errors from the
// state machine and eligibility checks come through unchanged in the message
// so callers see current vs requested state.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	errorCode := "INTERNAL_ERROR"

	switch {
	case errors.Is(err, domain.ErrAgreementNotFound),
		errors.Is(err, domain.ErrPitchNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		code = fiber.StatusNotFound
		errorCode = "NOT_FOUND"
		message = err.Error()
	case errors.Is(err, domain.ErrForbidden):
		code = fiber.StatusForbidden
		errorCode = "FORBIDDEN"
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		code = fiber.StatusConflict
		errorCode = "INVALID_TRANSITION"
		message = err.Error()
	case errors.Is(err, domain.ErrValidation):
		code = fiber.StatusUnprocessableEntity
		errorCode = "VALIDATION_ERROR"
		message = err.Error()
	case errors.Is(err, domain.ErrDuplicateRequest),
		errors.Is(err, domain.ErrOwnResource):
		code = fiber.StatusConflict
		errorCode = "CONFLICT"
		message = err.Error()
	case errors.Is(err, domain.ErrUnavailable):
		code = fiber.StatusServiceUnavailable
		errorCode = "UNAVAILABLE"
		message = "A backing service is unavailable, please retry"
	default:
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message

			switch code {
			case fiber.StatusBadRequest:
				errorCode = "BAD_REQUEST"
			case fiber.StatusUnauthorized:
				errorCode = "UNAUTHORIZED"
			case fiber.StatusForbidden:
				errorCode = "FORBIDDEN"
			case fiber.StatusNotFound:
				errorCode = "NOT_FOUND"
			case fiber.StatusConflict:
				errorCode = "CONFLICT"
			case fiber.StatusUnprocessableEntity:
				errorCode = "VALIDATION_ERROR"
			}
		}
	}

	traceID := uuid.New().String()[:8]

	return c.Status(code).JSON(ErrorResponse{
		Code:    errorCode,
		Message: message,
		TraceID: traceID,
	})
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}
