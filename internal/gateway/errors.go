package gateway

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned before any network call when a
// required argument, such as a record id, is missing.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrorKind tells whether a failure happened before a response was
// received or was reported by the backend.
type ErrorKind int

const (
	// KindClient covers transport failures: unreachable host, reset
	// connection, cancelled context, undecodable body.
	KindClient ErrorKind = iota
	// KindServer covers non-2xx responses.
	KindServer
)

func (k ErrorKind) String() string {
	if k == KindServer {
		return "server"
	}
	return "client"
}

// GatewayError is the single error type returned by gateway calls that
// reached the transport layer.
type GatewayError struct {
	Kind       ErrorKind
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// IsGatewayError reports whether err (or any error in its chain) is a
// GatewayError.
func IsGatewayError(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr)
}

// IsServerError reports whether err is a GatewayError reported by the
// backend with the given status code. A zero code matches any status.
func IsServerError(err error, code int) bool {
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) || gwErr.Kind != KindServer {
		return false
	}
	return code == 0 || gwErr.StatusCode == code
}

func clientError(method, path string, err error) *GatewayError {
	return &GatewayError{
		Kind:    KindClient,
		Method:  method,
		Path:    path,
		Message: fmt.Sprintf("Client-side error: %v", err),
		Err:     err,
	}
}

func serverError(method, path string, status int, detail string) *GatewayError {
	return &GatewayError{
		Kind:       KindServer,
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    fmt.Sprintf("Server-side error: %d - %s", status, detail),
	}
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
