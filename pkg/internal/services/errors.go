package services

import "errors"

var (
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrConfiguration   = errors.New("configuration error")
	ErrUpstream        = errors.New("upstream error")
)

// ValidationError is a user-correctable problem with a single input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (v *ValidationError) Error() string {
	return v.Message
}

// FieldError carries the input field a non-validation failure belongs to,
// such as the email of a conflicting signup.
type FieldError struct {
	Field string
	Err   error
}

func (v *FieldError) Error() string {
	return v.Err.Error()
}

func (v *FieldError) Unwrap() error {
	return v.Err
}

// newError wraps kind so errors.Is matches it while Message stays presentable.
func newError(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

func wrapUpstream(err error) error {
	return &kindError{kind: ErrUpstream, message: err.Error(), cause: err}
}

type kindError struct {
	kind    error
	message string
	cause   error
}

func (v *kindError) Error() string {
	return v.message
}

func (v *kindError) Is(target error) bool {
	return target == v.kind
}

func (v *kindError) Unwrap() error {
	return v.cause
}
