package serr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Kind classifies a ServiceError. The set is closed; transports decide how
// each kind is presented to the caller.
type Kind int

const (
	Internal Kind = iota
	Invalid
	Conflict
	InvalidCredentials
	MalformedIdentifier
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Conflict:
		return "conflict"
	case InvalidCredentials:
		return "invalid_credentials"
	case MalformedIdentifier:
		return "malformed_identifier"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

type ServiceError struct {
	Err        error
	Kind       Kind
	Msg        string
	StackTrace string
	Env        map[string]string
}

func NewServiceError(err error, kind Kind, msg string, args ...any) *ServiceError {
	return &ServiceError{
		Err:        err,
		Kind:       kind,
		Msg:        fmt.Sprintf(msg, args...),
		StackTrace: string(debug.Stack()),
		Env:        make(map[string]string),
	}
}

func (e *ServiceError) Error() string {
	return e.Msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// With adds a key to the error environment and returns the error for chaining.
func (e *ServiceError) With(key, val string) *ServiceError {
	e.Env[key] = val
	return e
}

// KindOf returns the kind of the first ServiceError in err's chain, or Internal.
func KindOf(err error) Kind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return Internal
}
