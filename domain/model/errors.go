package model

import (
	"errors"
	"fmt"
)

// ErrNoCachedData marks a failed refresh with nothing to fall back to
var ErrNoCachedData = errors.New("no cached data available")

// ConfigurationError is fatal: the service cannot talk to the remote API at all
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// TransportError wraps any failure of a remote call: network, timeout, 4xx/5xx
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DataShapeError describes a payload field that could not be interpreted.
// It is logged and the field falls back to its default; it never aborts a fetch.
type DataShapeError struct {
	Field string
	Value string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("unexpected value for %s: %q", e.Field, e.Value)
}

// IsTransport reports whether err carries a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsConfiguration reports whether err carries a ConfigurationError
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
