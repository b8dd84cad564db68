package store

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Kind classifies gateway failures.
type Kind string

const (
	// KindReferential means a write referenced a related row that does not exist.
	KindReferential Kind = "REFERENTIAL"
	// KindGateway covers every other backing-store failure.
	KindGateway Kind = "GATEWAY"
)

// Error is a classified gateway failure. Its message is the underlying
// store's message.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Extensions is copied into the located GraphQL error.
func (e *Error) Extensions() map[string]any {
	return map[string]any{"code": string(e.Kind)}
}

// Referentialf builds a KindReferential error for op.
func Referentialf(op, format string, args ...any) error {
	return &Error{Kind: KindReferential, Op: op, Err: errors.Errorf(format, args...)}
}

// Wrap classifies err as kind for op. Errors that are already classified
// keep their kind. Wrap(nil) is nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if stderrors.As(err, &se) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: errors.WithStack(err)}
}

// KindOf returns the kind of err, or "" when err is not a gateway error.
func KindOf(err error) Kind {
	var se *Error
	if stderrors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsReferential reports whether err is a referential failure.
func IsReferential(err error) bool { return KindOf(err) == KindReferential }
