package models

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is; every *Error unwraps to its kind.
var (
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrNotFound               = errors.New("not found")
	ErrPolicyViolation        = errors.New("policy violation")
	ErrDependencyUpdateFailed = errors.New("dependency update failed")
)

// Error is a domain failure carrying its kind, the operation that failed and
// a human-readable message. Err is the optional underlying cause.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// InvalidArgument builds an ErrInvalidArgument error.
func InvalidArgument(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NotFound builds an ErrNotFound error.
func NotFound(op, format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// PolicyViolation builds an ErrPolicyViolation error.
func PolicyViolation(op, format string, args ...any) error {
	return &Error{Kind: ErrPolicyViolation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// DependencyUpdateFailed wraps cause as an ErrDependencyUpdateFailed error.
func DependencyUpdateFailed(op string, cause error, format string, args ...any) error {
	return &Error{Kind: ErrDependencyUpdateFailed, Op: op, Msg: fmt.Sprintf(format, args...), Err: cause}
}
