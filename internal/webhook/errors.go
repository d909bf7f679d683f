package webhook

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType categorizes webhook failures for logging and metrics.
type ErrorType string

const (
	ErrTransport ErrorType = "transport" // connection refused, DNS, reset
	ErrTimeout   ErrorType = "timeout"   // client timeout or context deadline
	ErrStatus    ErrorType = "status"    // non-2xx response
	ErrDecode    ErrorType = "decode"    // body is not a usable reply
)

// Error wraps a webhook failure with its classification.
type Error struct {
	Type       ErrorType
	Op         string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("webhook %s: %s (status %d): %v", e.Op, e.Type, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("webhook %s: %s: %v", e.Op, e.Type, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ClassifyError returns err as a typed *Error, inferring the type when err
// did not come from this package.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}
	var we *Error
	if errors.As(err, &we) {
		return we
	}

	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return &Error{Type: ErrTimeout, Retryable: true, Err: err}
	case errors.Is(err, context.Canceled):
		return &Error{Type: ErrTransport, Retryable: false, Err: err}
	default:
		return &Error{Type: ErrTransport, Retryable: true, Err: err}
	}
}

func statusError(op string, code int, body []byte) *Error {
	return &Error{
		Type:       ErrStatus,
		Op:         op,
		StatusCode: code,
		Retryable:  code == 429 || code >= 500,
		Err:        fmt.Errorf("%s", truncate(string(body), 200)),
	}
}

func decodeError(op string, err error) *Error {
	return &Error{Type: ErrDecode, Op: op, Err: err}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
