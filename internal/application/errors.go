package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUserNotFound = errors.New("user not found")

// ValidationError carries user-correctable, field-scoped messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError is a uniqueness violation detected by the store after the
// validation checks passed, i.e. a concurrent writer won the race.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s %s", e.Field, e.Message)
}

// Fields mirrors ValidationError so callers can render both the same way.
func (e *ConflictError) Fields() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func emailConflict() *ConflictError {
	return &ConflictError{Field: "email", Message: msgEmailTaken}
}
