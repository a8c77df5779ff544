package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"leavedocs/internal/http/middleware"
	"leavedocs/internal/service"
	"leavedocs/internal/upload"
)

// errorPayload is the standardized error response body.
type errorPayload struct {
	Success   bool          `json:"success"`
	RequestID string        `json:"request_id"`
	Message   string        `json:"message"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// successPayload is the standardized success response body.
type successPayload struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func writeData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(successPayload{Success: true, Data: data})
}

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Message:   message,
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// writeWorkflowError maps a document workflow error to a response:
// not found 404, unauthorized 403, other known failures 400, anything else 500.
func writeWorkflowError(c *fiber.Ctx, err error) error {
	switch service.Reason(err) {
	case service.ReasonNotFound:
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case service.ReasonUnauthorized:
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case "":
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	default:
		return writeError(c, fiber.StatusBadRequest, errorCode(err), err.Error())
	}
}

// writeRequestError reports every known workflow failure as 400, for endpoints
// whose contract does not distinguish not found or unauthorized.
func writeRequestError(c *fiber.Ctx, err error) error {
	if service.Reason(err) == "" {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	return writeError(c, fiber.StatusBadRequest, errorCode(err), err.Error())
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, upload.ErrFileTooLarge):
		return "FILE_TOO_LARGE"
	case errors.Is(err, upload.ErrMIMETypeNotAllowed):
		return "FILE_TYPE_NOT_ALLOWED"
	case errors.Is(err, upload.ErrNoFile):
		return "FILE_REQUIRED"
	}
	switch service.Reason(err) {
	case service.ReasonNotFound:
		return "NOT_FOUND"
	case service.ReasonUnauthorized:
		return "FORBIDDEN"
	case service.ReasonUploadFailed:
		return "UPLOAD_FAILED"
	case service.ReasonPersistFailed:
		return "PERSIST_FAILED"
	default:
		return "BAD_REQUEST"
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", fe.Message)
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", fe.Message)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
