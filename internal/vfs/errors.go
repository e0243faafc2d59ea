package vfs

import "fmt"

// ReadError reports a failure while streaming a File that was opened
// successfully. Headers have usually been written by then, so callers
// can only log it.
type ReadError struct {
	Name string
	err  error
}

// NewReadError wraps err, which happened while reading name
func NewReadError(name string, err error) *ReadError {
	return &ReadError{Name: name, err: err}
}

func (r *ReadError) Error() string {
	msg := "failed to read file content"
	if r.Name != "" {
		msg += " of " + r.Name
	}

	if r.err == nil {
		return msg
	}

	return fmt.Sprintf("%s: %v", msg, r.err)
}

func (r *ReadError) Unwrap() error {
	return r.err
}

// Is matches any *ReadError so errors.Is(err, &ReadError{}) classifies err
func (r *ReadError) Is(target error) bool {
	// nolint: errorlint // type match, not value match
	_, ok := target.(*ReadError)
	return ok
}
