package service

import "strings"

// ValidationError collects per-field messages for a rejected create or
// update payload. It is distinct from store.ErrEventNotFound so callers
// can branch on the two failure kinds.
type ValidationError struct {
	Fields map[string][]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for field, fieldMessages := range e.Fields {
		messages = append(messages, field+": "+strings.Join(fieldMessages, "; "))
	}
	return "validation failed: " + strings.Join(messages, ", ")
}
