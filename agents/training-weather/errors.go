package trainingweather

import (
	"errors"
	"fmt"
)

// TransportError means the provider could not be reached or answered with a
// non-success status and no error payload.
type TransportError struct {
	StatusCode int // zero when no response arrived
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("weather API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("failed to reach weather API: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProviderError carries the provider's own error message, e.g. an unknown location
type ProviderError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("weather API error %d: %s", e.Code, e.Message)
}

// ParseError means the payload did not have the expected shape or failed validation
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("unexpected weather data (%s): %v", e.Field, e.Err)
	}
	return fmt.Sprintf("unexpected weather data: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errMissingField = errors.New("required field is missing")

// DescribeError turns a fetch error into the message shown to athletes
func DescribeError(err error) string {
	var providerErr *ProviderError
	var transportErr *TransportError
	var parseErr *ParseError

	switch {
	case errors.As(err, &providerErr):
		return "Weather service error: " + providerErr.Message
	case errors.As(err, &transportErr):
		return "Could not reach the weather service: " + transportErr.Error()
	case errors.As(err, &parseErr):
		return "Weather service sent unexpected data: " + parseErr.Error()
	default:
		return err.Error()
	}
}
