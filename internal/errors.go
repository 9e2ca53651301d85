package internal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

// AppError is the JSON error body returned by the HTTP layer.
type AppError struct {
	Message string            `json:"error"`
	Code    int               `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// ValidationError reports every field that failed validation, keyed by JSON field name.
// It satisfies errors.Is(err, errors.NotValid).
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (ve *ValidationError) Add(field, msg string) {
	if _, ok := ve.Fields[field]; ok {
		return
	}
	ve.Fields[field] = msg
}

func (ve *ValidationError) HasErrors() bool {
	return len(ve.Fields) > 0
}

func (ve *ValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(ve.Fields))
	for f := range ve.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+": "+ve.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve *ValidationError) Unwrap() error {
	return errors.NotValid
}
