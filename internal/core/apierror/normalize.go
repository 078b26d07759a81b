package apierror

import (
	"errors"
	"strings"
)

const (
	ConnectivityMessage = "cannot connect to server"
	ConnectivityTitle   = "Connection Error"
	GenericTitle        = "Error"
)

// Kind tags which failure a NormalizedError came from.
type Kind string

const (
	KindServerRejection             Kind = "server_rejection"
	KindServerRejectionUnstructured Kind = "server_rejection_unstructured"
	KindConnectivity                Kind = "connectivity"
	KindClientRequest               Kind = "client_request"
)

// NormalizedError is the single failure shape handed to callers. Status 0
// means no HTTP status was received.
type NormalizedError struct {
	Kind             Kind        `json:"kind"`
	Status           int         `json:"status"`
	Message          string      `json:"message"`
	ErrorTitle       string      `json:"errorTitle"`
	ValidationErrors FieldErrors `json:"validationErrors"`
	Timestamp        string      `json:"timestamp,omitempty"`
	Path             string      `json:"path,omitempty"`
}

func (e *NormalizedError) Error() string {
	return e.ErrorTitle + ": " + e.Message
}

// Normalize classifies err once. Errors that are already normalized pass
// through unchanged; errors outside the failure set are treated as client
// failures.
func Normalize(err error, defaultMessage string) *NormalizedError {
	if err == nil {
		return nil
	}

	var (
		ne  *NormalizedError
		sr  *ServerRejection
		sru *ServerRejectionUnstructured
		cf  *ConnectivityFailure
		crf *ClientRequestFailure
	)

	switch {
	case errors.As(err, &ne):
		return ne

	case errors.As(err, &sr):
		title := sr.Title
		if title == "" {
			title = TitleFor(sr.Status)
		}
		return &NormalizedError{
			Kind:             KindServerRejection,
			Status:           sr.Status,
			Message:          sr.Message,
			ErrorTitle:       title,
			ValidationErrors: sr.ValidationErrors,
			Timestamp:        sr.Timestamp,
			Path:             sr.Path,
		}

	case errors.As(err, &sru):
		msg := sru.Body
		if strings.TrimSpace(msg) == "" {
			msg = defaultMessage
		}
		return &NormalizedError{
			Kind:       KindServerRejectionUnstructured,
			Status:     sru.Status,
			Message:    msg,
			ErrorTitle: TitleFor(sru.Status),
		}

	case errors.As(err, &cf):
		return &NormalizedError{
			Kind:       KindConnectivity,
			Status:     0,
			Message:    ConnectivityMessage,
			ErrorTitle: ConnectivityTitle,
		}

	case errors.As(err, &crf):
		return clientFailure(crf.Err, defaultMessage)

	default:
		return clientFailure(err, defaultMessage)
	}
}

func clientFailure(cause error, defaultMessage string) *NormalizedError {
	msg := defaultMessage
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	return &NormalizedError{
		Kind:       KindClientRequest,
		Status:     0,
		Message:    msg,
		ErrorTitle: GenericTitle,
	}
}
