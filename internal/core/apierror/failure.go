// Package apierror turns failures of outbound API calls into one
// NormalizedError shape that every caller branches on the same way.
package apierror

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Failure is the closed set of ways an outbound call can fail:
// *ServerRejection, *ServerRejectionUnstructured, *ConnectivityFailure or
// *ClientRequestFailure.
type Failure interface {
	error
	failure()
}

// ServerRejection is an error status with a structured body carrying a message.
type ServerRejection struct {
	Status           int
	Message          string
	Title            string
	ValidationErrors FieldErrors
	Timestamp        string
	Path             string
}

func (e *ServerRejection) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
}

// ServerRejectionUnstructured is an error status whose body is not a
// structured error object.
type ServerRejectionUnstructured struct {
	Status int
	Body   string
}

func (e *ServerRejectionUnstructured) Error() string {
	return fmt.Sprintf("server rejected request (%d)", e.Status)
}

// ConnectivityFailure means the request was sent but no response arrived.
type ConnectivityFailure struct {
	Op  string
	Err error
}

func (e *ConnectivityFailure) Error() string {
	return fmt.Sprintf("%s: no response: %v", e.Op, e.Err)
}

func (e *ConnectivityFailure) Unwrap() error { return e.Err }

// ClientRequestFailure means the call failed before a request was sent.
type ClientRequestFailure struct {
	Op  string
	Err error
}

func (e *ClientRequestFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ClientRequestFailure) Unwrap() error { return e.Err }

func (*ServerRejection) failure()             {}
func (*ServerRejectionUnstructured) failure() {}
func (*ConnectivityFailure) failure()         {}
func (*ClientRequestFailure) failure()        {}

type rejectionBody struct {
	Message          json.RawMessage `json:"message"`
	Error            json.RawMessage `json:"error"`
	ValidationErrors FieldErrors     `json:"validationErrors"`
	Timestamp        json.RawMessage `json:"timestamp"`
	Path             json.RawMessage `json:"path"`
}

// Classify turns an error status and its raw body into a failure. A JSON
// object with a string "message" is structured; anything else is not.
func Classify(status int, body []byte) Failure {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var rb rejectionBody
		if err := json.Unmarshal(trimmed, &rb); err == nil {
			if msg, ok := jsonString(rb.Message); ok && msg != "" {
				title, _ := jsonString(rb.Error)
				return &ServerRejection{
					Status:           status,
					Message:          msg,
					Title:            title,
					ValidationErrors: rb.ValidationErrors,
					Timestamp:        jsonText(rb.Timestamp),
					Path:             jsonText(rb.Path),
				}
			}
		}
	}

	text := string(trimmed)
	if s, ok := jsonString(trimmed); ok {
		text = s
	}
	return &ServerRejectionUnstructured{Status: status, Body: text}
}

// jsonString decodes raw as a JSON string.
func jsonString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// jsonText renders a scalar JSON value as text; null becomes empty.
func jsonText(raw json.RawMessage) string {
	if s, ok := jsonString(raw); ok {
		return s
	}
	t := strings.TrimSpace(string(raw))
	if t == "null" {
		return ""
	}
	return t
}
