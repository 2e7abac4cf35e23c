package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GenericTransportMessage is shown when the booking service cannot be reached
// or answers without a readable message.
const GenericTransportMessage = "Unable to reach the booking service. Please try again."

// TransportError is a failed call to the booking service. Message is the
// service's own message when its error body carried one.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrorMessage extracts the user-facing text of any error returned by the
// client.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var te *TransportError
	if errors.As(err, &te) && te.Message != "" {
		return te.Message
	}
	return err.Error()
}

// IsStatus reports whether err is a TransportError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == status
}

type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// newStatusError builds the error for a non-2xx answer.
func newStatusError(status int, body []byte) *TransportError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && strings.TrimSpace(eb.Message) != "" {
		return &TransportError{StatusCode: status, Message: eb.Message}
	}
	return &TransportError{
		StatusCode: status,
		Message:    fmt.Sprintf("Request failed with status code %d", status),
	}
}

func newNetworkError(err error) *TransportError {
	return &TransportError{Message: GenericTransportMessage, Err: err}
}
