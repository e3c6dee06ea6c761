package form

import (
	"errors"
	"fmt"
)

// FieldError describes one client-side validation failure. Validation runs
// before any remote call; a failing draft never reaches the wire.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (v *ValidationError) Error() string {
	if len(v.Fields) == 1 {
		return fmt.Sprintf("validation: %s %s", v.Fields[0].Field, v.Fields[0].Message)
	}
	return fmt.Sprintf("validation: %d invalid fields", len(v.Fields))
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

var (
	ErrNotOpen = errors.New("form_not_open")
	ErrNotEdit = errors.New("form_not_in_edit_mode")
)
