package staticview

import (
	"errors"
	"io/fs"
	"syscall"

	"gitlab.com/gitlab-org/gitlab-static/internal/vfs"
)

var (
	errClosed       = errors.New("file already closed")
	errInvalidIndex = errors.New("index must be a single file name")
	errNotRegular   = errors.New("not a regular file")
)

// isNotFound reports whether err means the resource is absent, unreadable
// or outside of the docroot. All of these are answered with a 404 and
// never distinguished towards the client.
func isNotFound(err error) bool {
	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, vfs.ErrInvalidPath),
		errors.Is(err, errNotRegular),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.ENAMETOOLONG),
		errors.Is(err, syscall.ELOOP):
		return true
	}

	return false
}

// openError is returned by Response.Send when the matched file could not be
// opened. The fallback response has already been written when it is returned.
type openError struct {
	err error
}

func (o *openError) Error() string {
	return "opening response body: " + o.err.Error()
}

func (o *openError) Unwrap() error {
	return o.err
}
