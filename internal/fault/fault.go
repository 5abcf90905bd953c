package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Class splits failures by how the caller should react: fix the input,
// resolve the conflict, or retry later. The core never retries on its
// own.
type Class int

const (
	ClassValidation Class = iota
	ClassConflict
	ClassTransient
)

// Error is a stable machine-readable failure. Code never changes
// between releases; Detail is for humans.
type Error struct {
	Code   string `json:"code"`
	Class  Class  `json:"-"`
	Detail string `json:"detail,omitempty"`
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func Validation(code, detail string) *Error {
	return &Error{Code: code, Class: ClassValidation, Detail: detail}
}

func Conflict(code, detail string) *Error {
	return &Error{Code: code, Class: ClassConflict, Detail: detail}
}

func Transient(code, detail string) *Error {
	return &Error{Code: code, Class: ClassTransient, Detail: detail}
}

// From extracts a fault from an error chain.
func From(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// HTTPStatus maps a fault class to a response status.
func HTTPStatus(err error) int {
	fe, ok := From(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch fe.Class {
	case ClassValidation:
		return http.StatusUnprocessableEntity
	case ClassConflict:
		return http.StatusConflict
	case ClassTransient:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
