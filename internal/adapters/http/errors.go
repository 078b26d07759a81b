package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/placemap/internal/core/apierror"
	"github.com/samirrijal/placemap/internal/core/usecases"
	"github.com/samirrijal/placemap/internal/pkg/logging"
)

// APIError is the error body of every endpoint. Status is the upstream
// status, 0 when the backend could not be reached; the HTTP status is then
// 502.
type APIError struct {
	Status           int                  `json:"status"`
	Message          string               `json:"message"`
	ErrorTitle       string               `json:"errorTitle"`
	ValidationErrors apierror.FieldErrors `json:"validationErrors,omitempty"`
	Timestamp        string               `json:"timestamp"`
	Path             string               `json:"path,omitempty"`
	Action           apierror.Action      `json:"action,omitempty"`
	Display          string               `json:"display,omitempty"`
	RequestID        string               `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, message string) error {
	return sendError(c, status, APIError{
		Status:     status,
		Message:    message,
		ErrorTitle: apierror.TitleFor(status),
		Path:       c.Path(),
	})
}

func sendError(c *fiber.Ctx, httpStatus int, body APIError) error {
	body.RequestID, _ = c.Locals("requestid").(string)
	if body.Timestamp == "" {
		body.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return c.Status(httpStatus).JSON(body)
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, msg)
}

// errUnauthorized returns a 401 error.
func errUnauthorized(c *fiber.Ctx, msg string) error {
	return sendError(c, fiber.StatusUnauthorized, APIError{
		Status:     fiber.StatusUnauthorized,
		Message:    msg,
		ErrorTitle: apierror.TitleFor(fiber.StatusUnauthorized),
		Path:       c.Path(),
		Action:     apierror.ActionReauthenticate,
	})
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, msg)
}

// writeError maps a usecase error onto the response.
func writeError(c *fiber.Ctx, err error) error {
	var (
		form *usecases.FormError
		ne   *apierror.NormalizedError
	)

	switch {
	case errors.As(err, &form):
		return errBadRequest(c, form.Message)
	case errors.Is(err, usecases.ErrInvalidInput):
		return errBadRequest(c, err.Error())
	case errors.Is(err, usecases.ErrViewNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, usecases.ErrTooManyViews):
		return newError(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.As(err, &ne):
		return sendNormalized(c, ne)
	default:
		logging.FromContext(c.UserContext()).Error("unhandled error", "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}

func sendNormalized(c *fiber.Ctx, ne *apierror.NormalizedError) error {
	p := apierror.Present(ne)

	status := ne.Status
	if status < 400 || status > 599 {
		status = fiber.StatusBadGateway
	}

	// Alert text carries the presented message, fallbacks included.
	shown := *ne
	shown.ErrorTitle = p.Title
	shown.Message = p.Message

	return sendError(c, status, APIError{
		Status:           ne.Status,
		Message:          p.Message,
		ErrorTitle:       p.Title,
		ValidationErrors: ne.ValidationErrors,
		Timestamp:        ne.Timestamp,
		Path:             ne.Path,
		Action:           p.Action,
		Display:          apierror.ShowError(&shown),
	})
}
