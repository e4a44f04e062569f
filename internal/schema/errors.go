package schema

import (
	"fmt"
	"strings"
)

// FieldError names one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError enumerates every field that failed validation against a
// named schema.
type ValidationError struct {
	Schema string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s validation failed:", e.Schema)
	for _, f := range e.Fields {
		fmt.Fprintf(&sb, " %s: %s;", f.Field, f.Message)
	}

	return strings.TrimSuffix(sb.String(), ";")
}
