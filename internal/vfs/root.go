package vfs

import (
	"context"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/gitlab-static/metrics"
)

// Root abstracts the things the static resolver needs from a directory.
// Names are relative to the root and never resolve outside of it.
type Root interface {
	Stat(ctx context.Context, name string) (os.FileInfo, error)
	Open(ctx context.Context, name string) (File, error)
}

type instrumentedRoot struct {
	root Root
	vfs  string
	path string
}

// observe counts op and traces it with the root it ran against
func (i *instrumentedRoot) observe(ctx context.Context, op, name string, err error) {
	metrics.VFSOperations.WithLabelValues(i.vfs, op, strconv.FormatBool(err == nil)).Inc()

	log.WithContext(ctx).WithFields(log.Fields{
		"vfs":  i.vfs,
		"path": i.path,
		"name": name,
	}).WithError(err).Tracef("%s call", op)
}

func (i *instrumentedRoot) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	fi, err := i.root.Stat(ctx, name)
	i.observe(ctx, "Stat", name, err)

	return fi, err
}

func (i *instrumentedRoot) Open(ctx context.Context, name string) (File, error) {
	f, err := i.root.Open(ctx, name)
	i.observe(ctx, "Open", name, err)

	return f, err
}
