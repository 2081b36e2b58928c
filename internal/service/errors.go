package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors mapped to stable API codes by the handlers. NotFound is
// deliberately generic: it also covers resources hidden by authorization
// rules, so their existence is never leaked.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("insufficient permissions")
	ErrConflict     = errors.New("resource already exists")
	ErrInternal     = errors.New("internal error")
)

// FieldError describes a single violated input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field of a request
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}
