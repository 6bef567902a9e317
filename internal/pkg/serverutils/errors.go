// FILE: internal/pkg/serverutils/errors.go
package serverutils

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Machine-readable error codes carried by AppError.
const (
	CodeInvalidInput         = "INVALID_INPUT"
	CodeMissingConfiguration = "MISSING_CONFIGURATION"
	CodeProviderError        = "PROVIDER_ERROR"
	CodeNotFound             = "NOT_FOUND"
)

// AppError is a request-scoped failure with a fixed HTTP mapping. Services
// return it; the error handler middleware turns it into the JSON envelope.
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidInput marks malformed or missing request fields. Never retried.
func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Status:  fiber.StatusBadRequest,
		Message: message,
	}
}

// NewMissingConfiguration marks a server-side configuration gap, e.g. no
// provider credential. Fatal for the request, nothing the caller can fix.
func NewMissingConfiguration(message string) *AppError {
	return &AppError{
		Code:    CodeMissingConfiguration,
		Status:  fiber.StatusInternalServerError,
		Message: message,
	}
}

// NewProviderError preserves the upstream status and body for diagnosis.
func NewProviderError(status int, body string) *AppError {
	return &AppError{
		Code:    CodeProviderError,
		Status:  fiber.StatusBadGateway,
		Message: fmt.Sprintf("provider returned status %d: %s", status, body),
	}
}

func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Status:  fiber.StatusNotFound,
		Message: message,
	}
}

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// standard envelope. Unknown errors become an opaque 500; the detail goes to
// the log, not the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Status).JSON(ErrorResponse(appErr.Status, appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		log.Printf("[ERROR] unhandled error on %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
