package usecases

import (
	"context"
	"errors"

	"github.com/samirrijal/placemap/internal/core/apierror"
	"github.com/samirrijal/placemap/internal/pkg/logging"
	"github.com/samirrijal/placemap/internal/pkg/metrics"
)

// ErrInvalidInput marks caller mistakes caught before any network call.
var ErrInvalidInput = errors.New("invalid input")

// FormError is a form-level validation failure shown to the user verbatim.
type FormError struct {
	Message string
}

func (e *FormError) Error() string { return e.Message }

// fail normalizes a failed backend call exactly once, then logs and counts it.
func fail(ctx context.Context, op string, err error, defaultMessage string) *apierror.NormalizedError {
	ne := apierror.Normalize(err, defaultMessage)

	logging.FromContext(ctx).Warn("backend call failed",
		"op", op,
		"kind", ne.Kind,
		"status", ne.Status,
		"title", ne.ErrorTitle,
		"message", ne.Message,
		"path", ne.Path,
		"error", err,
	)
	metrics.ObserveFailure(op, string(ne.Kind), ne.Status)

	return ne
}
