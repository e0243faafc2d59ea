package vfs

import (
	"context"
	"errors"
	"strconv"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/gitlab-static/metrics"
)

// ErrInvalidPath is returned when a name resolves to a location outside of
// the root it was requested from
var ErrInvalidPath = errors.New("path resolves outside of root")

// VFS abstracts the things the static resolver needs to serve files from a directory.
type VFS interface {
	Root(ctx context.Context, path string) (Root, error)
	Name() string
}

// Instrumented wraps fs so every root it hands out records metrics and
// trace logs for each operation
func Instrumented(fs VFS) VFS {
	return &instrumentedVFS{fs: fs}
}

type instrumentedVFS struct {
	fs VFS
}

func (i *instrumentedVFS) increment(operation string, err error) {
	metrics.VFSOperations.WithLabelValues(i.fs.Name(), operation, strconv.FormatBool(err == nil)).Inc()
}

func (i *instrumentedVFS) log(ctx context.Context) *log.Entry {
	return log.WithContext(ctx).WithField("vfs", i.fs.Name())
}

func (i *instrumentedVFS) Root(ctx context.Context, path string) (Root, error) {
	root, err := i.fs.Root(ctx, path)

	i.increment("Root", err)
	i.log(ctx).
		WithField("path", path).
		WithError(err).
		Traceln("Root call")

	if err != nil {
		return nil, err
	}

	return &instrumentedRoot{root: root, vfs: i.fs.Name(), path: path}, nil
}

func (i *instrumentedVFS) Name() string {
	return i.fs.Name()
}
