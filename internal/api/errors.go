package api

import "errors"

var (
	// ErrUnauthorized is returned when the API rejects the held token or the
	// account lacks the privilege for an operation.
	ErrUnauthorized = errors.New("api: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("api: not found")
	// ErrUnreachable is returned when no response reached the client at all.
	ErrUnreachable = errors.New("api: server unreachable")
)

// Kind classifies a normalized API failure for logging and branching.
type Kind string

const (
	// KindTransport marks failures where no response reached the client.
	KindTransport Kind = "transport"
	// KindServer marks responses that carried a structured error payload.
	KindServer Kind = "server"
	// KindUnauthorized marks 401/403 responses.
	KindUnauthorized Kind = "unauthorized"
	// KindDecode marks responses whose body could not be interpreted.
	KindDecode Kind = "decode"
)

// Error is the single error shape surfaced by every service call. Message is
// always human readable: the server provided message when one exists, the
// transport error's own text otherwise, and a per-operation fallback as the
// last resort. Callers never inspect transport level failures directly.
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap exposes the sentinel or underlying cause for errors.Is chains.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case KindTransport:
		return ErrUnreachable
	case KindUnauthorized:
		return ErrUnauthorized
	}
	if e.Status == 404 {
		return ErrNotFound
	}
	return e.Err
}

// ErrorKind maps a failure to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return string(apiErr.Kind)
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return string(KindUnauthorized)
	case errors.Is(err, ErrUnreachable):
		return string(KindTransport)
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "unexpected"
}

// Message extracts the normalized human readable message from a service
// failure, falling back to the error's own text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
