package utils

import (
	"errors"
	"net/http"

	"assignmentmate/backend/api"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse wraps every successful answer of the gateway
type SuccessResponse struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
	Meta     interface{} `json:"meta,omitempty"`
}

// ErrorResponse wraps every failure
type ErrorResponse struct {
	Success  bool        `json:"success"`
	Error    string      `json:"error"`
	Message  string      `json:"message,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
	Details  interface{} `json:"details,omitempty"`
}

func Success(c *fiber.Ctx, status int, data interface{}, meta ...interface{}) error {
	response := SuccessResponse{
		Success: true,
		Data:    data,
	}

	if len(meta) > 0 {
		response.Meta = meta[0]
	}

	return c.Status(status).JSON(response)
}

// Redirect answers with the client route the view should navigate to.
func Redirect(c *fiber.Ctx, route string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{
		Success:  true,
		Data:     data,
		Redirect: route,
	})
}

func Error(c *fiber.Ctx, status int, err error, details ...interface{}) error {
	response := ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: err.Error(),
	}

	if len(details) > 0 {
		response.Details = details[0]
	}

	return c.Status(status).JSON(response)
}

// UpstreamError renders a backend failure. Unauthenticated callers are sent to
// the login view.
func UpstreamError(c *fiber.Ctx, err error) error {
	status := api.StatusCode(err)
	response := ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: upstreamMessage(err),
	}
	if status == fiber.StatusUnauthorized {
		response.Redirect = LoginRoute
	}
	return c.Status(status).JSON(response)
}

// ReadFailure hides the cause of a failed list or history read behind a
// generic message.
func ReadFailure(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadGateway, errors.New(message))
}

func upstreamMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func ValidationError(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Success: false,
		Error:   "Validation Error",
		Details: errors,
	})
}

func Created(c *fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusCreated, data)
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, fiber.NewError(fiber.StatusNotFound, message))
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, message))
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Success:  false,
		Error:    http.StatusText(fiber.StatusUnauthorized),
		Message:  message,
		Redirect: LoginRoute,
	})
}

func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, fiber.NewError(fiber.StatusConflict, message))
}

func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, fiber.NewError(fiber.StatusInternalServerError, message))
}

// ErrorHandler renders errors returned by handlers in the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return Error(c, code, err)
}
