package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError is missing or malformed user input. It is handled where it
// occurs and never sent to the booking service.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateStruct checks v's validate tags and reports any failure with the
// given user-facing message.
func ValidateStruct(v any, message string) error {
	if err := validate.Struct(v); err != nil {
		return &ValidationError{Message: message, Err: err}
	}
	return nil
}
