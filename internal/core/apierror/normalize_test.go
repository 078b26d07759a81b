package apierror_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/placemap/internal/core/apierror"
)

func TestNormalize_StructuredRejection(t *testing.T) {
	f := apierror.Classify(409, []byte(`{"message":"already saved","error":"Conflict"}`))

	ne := apierror.Normalize(f, "Failed to save place")
	require.NotNil(t, ne)
	assert.Equal(t, apierror.KindServerRejection, ne.Kind)
	assert.Equal(t, 409, ne.Status)
	assert.Equal(t, "already saved", ne.Message)
	assert.Equal(t, "Conflict", ne.ErrorTitle)
	assert.Nil(t, ne.ValidationErrors)
}

func TestNormalize_StructuredRejectionWithoutTitleUsesStatusTable(t *testing.T) {
	body := `{"message":"bad input","validationErrors":{"username":"taken","email":"invalid"},` +
		`"timestamp":"2024-05-01T10:00:00","path":"/api/auth/register"}`

	ne := apierror.Normalize(apierror.Classify(400, []byte(body)), "")
	require.NotNil(t, ne)
	assert.Equal(t, "Invalid Request", ne.ErrorTitle)
	assert.Equal(t, "2024-05-01T10:00:00", ne.Timestamp)
	assert.Equal(t, "/api/auth/register", ne.Path)
	require.Len(t, ne.ValidationErrors, 2)
	assert.Equal(t, "username", ne.ValidationErrors[0].Field)
	assert.Equal(t, "email", ne.ValidationErrors[1].Field)
}

func TestNormalize_UnstructuredRejection(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		title   string
	}{
		{"plain text", 502, "upstream exploded", "upstream exploded", "Service Unavailable"},
		{"json string", 404, `"no such place"`, "no such place", "Not Found"},
		{"empty body", 500, "", "Something failed", "Server Error"},
		{"object without message", 403, `{"error":"nope"}`, `{"error":"nope"}`, "Access Denied"},
		{"empty message", 418, `{"message":""}`, `{"message":""}`, "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := apierror.Classify(tt.status, []byte(tt.body))
			var sru *apierror.ServerRejectionUnstructured
			require.True(t, errors.As(f, &sru), "expected unstructured rejection, got %T", f)

			ne := apierror.Normalize(f, "Something failed")
			assert.Equal(t, apierror.KindServerRejectionUnstructured, ne.Kind)
			assert.Equal(t, tt.status, ne.Status)
			assert.Equal(t, tt.message, ne.Message)
			assert.Equal(t, tt.title, ne.ErrorTitle)
			assert.Nil(t, ne.ValidationErrors)
		})
	}
}

func TestNormalize_NoResponse(t *testing.T) {
	err := &apierror.ConnectivityFailure{Op: "search", Err: context.DeadlineExceeded}

	ne := apierror.Normalize(fmt.Errorf("search nearby: %w", err), "Failed to search")
	require.NotNil(t, ne)
	assert.Equal(t, 0, ne.Status)
	assert.Equal(t, "Connection Error", ne.ErrorTitle)
	assert.Equal(t, apierror.ConnectivityMessage, ne.Message)
	assert.Equal(t, apierror.KindConnectivity, ne.Kind)
}

func TestNormalize_ClientFailure(t *testing.T) {
	ne := apierror.Normalize(&apierror.ClientRequestFailure{Op: "save", Err: errors.New("json: unsupported value: NaN")}, "Failed")
	assert.Equal(t, 0, ne.Status)
	assert.Equal(t, "Error", ne.ErrorTitle)
	assert.Equal(t, "json: unsupported value: NaN", ne.Message)

	ne = apierror.Normalize(&apierror.ClientRequestFailure{Op: "save"}, "Failed")
	assert.Equal(t, "Failed", ne.Message)

	ne = apierror.Normalize(errors.New("boom"), "Failed")
	assert.Equal(t, apierror.KindClientRequest, ne.Kind)
	assert.Equal(t, "boom", ne.Message)
}

func TestNormalize_PassesNormalizedThrough(t *testing.T) {
	first := apierror.Normalize(apierror.Classify(401, []byte(`{"message":"expired"}`)), "")
	second := apierror.Normalize(fmt.Errorf("wrapped: %w", first), "other")
	assert.Same(t, first, second)
	assert.Nil(t, apierror.Normalize(nil, "x"))
}

func TestTitleFor(t *testing.T) {
	tests := map[int]string{
		400: "Invalid Request",
		401: "Authentication Failed",
		403: "Access Denied",
		404: "Not Found",
		409: "Conflict",
		429: "Rate Limit Exceeded",
		500: "Server Error",
		502: "Service Unavailable",
		503: "Service Unavailable",
		504: "Error",
		418: "Error",
	}
	for status, want := range tests {
		assert.Equal(t, want, apierror.TitleFor(status), "status %d", status)
	}
}
