package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/samirrijal/placemap/internal/pkg/logging"
)

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")

	ctx := logging.WithLogger(context.Background(), l)
	logging.FromContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), "request_id=abc") {
		t.Errorf("expected request-scoped attributes, got %q", buf.String())
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	if logging.FromContext(context.Background()) != slog.Default() {
		t.Error("expected default logger when none stored")
	}
}
