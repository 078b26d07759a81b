package apierror

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldError is one field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors keeps validation messages in the order the server sent them.
// It is encoded as a JSON object.
type FieldErrors []FieldError

// Get returns the message for field.
func (f FieldErrors) Get(field string) (string, bool) {
	for _, fe := range f {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// MarshalJSON writes the fields as an object, preserving order.
func (f FieldErrors) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fe := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(fe.Field)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(fe.Message)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object in key order. Non-string values are kept as
// their JSON text, string arrays are joined. Anything that is not an object
// decodes to nil.
func (f *FieldErrors) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		*f = nil
		return nil
	}

	out := FieldErrors{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("validation errors: unexpected key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("validation errors: field %s: %w", key, err)
		}
		out = append(out, FieldError{Field: key, Message: fieldMessage(raw)})
	}

	*f = out
	return nil
}

func fieldMessage(raw json.RawMessage) string {
	if s, ok := jsonString(raw); ok {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return jsonText(raw)
}

// FormatValidationErrors renders one "field: message" line per entry in
// order. It returns "" when there is nothing to show.
func FormatValidationErrors(f FieldErrors) string {
	if len(f) == 0 {
		return ""
	}
	lines := make([]string, len(f))
	for i, fe := range f {
		lines[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(lines, "\n")
}
