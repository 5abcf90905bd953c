package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrorKind classifies persistence failures so callers can tell
// conflict from not-found from transient without sniffing driver
// strings.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindUniqueViolation
	KindTimeout
)

type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of a store error, KindUnknown for anything
// that did not come out of this package.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsUniqueViolation(err error) bool {
	return KindOf(err) == KindUniqueViolation
}

// wrapErr classifies and wraps a raw driver error. The dialect stores
// plug in their own constraint-violation detection via Classify.
func (s *BaseStore) wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindUnknown
	switch {
	case errors.Is(err, sql.ErrNoRows):
		kind = KindNotFound
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case s.Classify != nil:
		kind = s.Classify(err)
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
