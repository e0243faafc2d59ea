package staticview

import (
	"context"
	"io"

	"gitlab.com/gitlab-org/gitlab-static/internal/vfs"
)

// lazyFile opens name from root on first use. Closing a lazyFile that
// was never opened does not touch the filesystem.
type lazyFile struct {
	f      vfs.File
	err    error
	closed bool
	load   func() (vfs.File, error)
}

var _ io.ReadCloser = (*lazyFile)(nil)

func lazyOpen(ctx context.Context, root vfs.Root, name string) *lazyFile {
	return &lazyFile{
		load: func() (vfs.File, error) {
			return root.Open(ctx, name)
		},
	}
}

// Open forces the file to be opened and returns the error doing so, if any
func (lf *lazyFile) Open() error {
	if lf.closed {
		return errClosed
	}

	if lf.f == nil && lf.err == nil {
		lf.f, lf.err = lf.load()
	}

	return lf.err
}

func (lf *lazyFile) Read(p []byte) (int, error) {
	if err := lf.Open(); err != nil {
		return 0, err
	}

	return lf.f.Read(p)
}

// Close closes the underlying file once. Subsequent calls are no-ops.
func (lf *lazyFile) Close() error {
	if lf.closed {
		return nil
	}

	lf.closed = true

	if lf.f != nil {
		return lf.f.Close()
	}

	return nil
}
