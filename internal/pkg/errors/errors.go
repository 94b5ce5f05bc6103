package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error for policy decisions (HTTP status, retry, log level).
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation covers caller mistakes; always surfaced verbatim, never
	// after a side effect.
	KindValidation
	// KindStorage covers media upload and entry persistence failures; aborts
	// the submission.
	KindStorage
	// KindExternal covers classifier failures. These are absorbed inside the
	// services layer and must never escape a submission.
	KindExternal
	// KindSync covers subscription transport failures; signaled as degraded
	// state, never as snapshot corruption.
	KindSync
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	case KindExternal:
		return "external"
	case KindSync:
		return "sync"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }
func (e *Error) Kind() Kind    { return e.kind }

// Message returns the message without the wrapped cause appended.
func (e *Error) Message() string { return e.msg }

func Validation(msg string) error {
	return &Error{kind: KindValidation, msg: msg}
}

func Validationf(format string, args ...any) error {
	return &Error{kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

func Storage(msg string, err error) error {
	return &Error{kind: KindStorage, msg: msg, err: err}
}

func External(msg string, err error) error {
	return &Error{kind: KindExternal, msg: msg, err: err}
}

func Sync(msg string, err error) error {
	return &Error{kind: KindSync, msg: msg, err: err}
}

func NotFound(msg string) error {
	return &Error{kind: KindNotFound, msg: msg}
}

func Unauthorized(msg string) error {
	return &Error{kind: KindUnauthorized, msg: msg}
}

// KindOf walks the chain and returns the first classified kind.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// Re-exports so callers don't need a second errors import.
func Is(err, target error) bool  { return stderrors.Is(err, target) }
func As(err error, target any) bool { return stderrors.As(err, target) }
func New(msg string) error       { return stderrors.New(msg) }
