package core

import (
	"errors"
	"fmt"
)

var (
	// ErrFatal marks failures that must abort the whole run: the model backend
	// stayed unreachable after retries, or its output could not be decoded.
	ErrFatal = errors.New("fatal")

	// ErrDecode is returned when model output does not parse into the
	// expected structured type.
	ErrDecode = errors.New("decode model output")

	// ErrMissingURLs is returned when a URL check is requested but the fact
	// sheet holds no URL list.
	ErrMissingURLs = errors.New("fact sheet has no external urls")

	// ErrTooManyBugs is returned when generated code keeps failing validation.
	ErrTooManyBugs = errors.New("too many failed code validations")

	// ErrModelCallLimit is returned when a run exceeds its model call budget.
	ErrModelCallLimit = errors.New("exceeded max model calls")
)

// GatewayErrorKind classifies model gateway failures.
type GatewayErrorKind string

const (
	// GatewayErrorNetwork covers transport failures, timeouts and non-2xx
	// responses other than authentication failures.
	GatewayErrorNetwork GatewayErrorKind = "network"
	// GatewayErrorAuth covers rejected credentials (HTTP 401/403).
	GatewayErrorAuth GatewayErrorKind = "auth"
	// GatewayErrorDecode covers malformed response bodies and responses
	// without choices.
	GatewayErrorDecode GatewayErrorKind = "decode"
)

// GatewayError is returned by every model gateway failure so callers can
// handle the three kinds uniformly.
type GatewayError struct {
	Kind GatewayErrorKind
	Err  error
}

// NewGatewayError wraps err with the given kind.
func NewGatewayError(kind GatewayErrorKind, err error) *GatewayError {
	return &GatewayError{Kind: kind, Err: err}
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s error: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *GatewayError) Unwrap() error { return e.Err }

// IsGatewayErrorKind reports whether err wraps a GatewayError of the given kind.
func IsGatewayErrorKind(err error, kind GatewayErrorKind) bool {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind == kind
	}
	return false
}
