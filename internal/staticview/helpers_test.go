package staticview

import (
	"context"
	"errors"
	"os"
	"sync"

	"gitlab.com/gitlab-org/gitlab-static/internal/vfs"
	"gitlab.com/gitlab-org/gitlab-static/internal/vfs/local"
)

// countingFS serves every docroot from its own local root and counts the
// files opened and closed through it
type countingFS struct {
	mu     sync.Mutex
	fs     *local.VFS
	opened int
	closed int
}

func newCountingFS() *countingFS {
	return &countingFS{fs: local.New(0, 0)}
}

func (c *countingFS) Root(ctx context.Context, path string) (vfs.Root, error) {
	root, err := c.fs.Root(ctx, path)
	if err != nil {
		return nil, err
	}

	return &countingRoot{Root: root, fs: c}, nil
}

func (c *countingFS) Name() string {
	return "counting"
}

func (c *countingFS) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.opened, c.closed
}

type countingRoot struct {
	vfs.Root
	fs *countingFS
}

func (r *countingRoot) Open(ctx context.Context, name string) (vfs.File, error) {
	f, err := r.Root.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	r.fs.mu.Lock()
	r.fs.opened++
	r.fs.mu.Unlock()

	return &countingFile{File: f, fs: r.fs}, nil
}

type countingFile struct {
	vfs.File
	fs *countingFS
}

func (f *countingFile) Close() error {
	f.fs.mu.Lock()
	f.fs.closed++
	f.fs.mu.Unlock()

	return f.File.Close()
}

var errBrokenDisk = errors.New("input/output error")

// brokenFS returns roots failing every operation with err
type brokenFS struct {
	err error
}

func (b brokenFS) Root(context.Context, string) (vfs.Root, error) {
	return brokenRoot(b), nil
}

func (b brokenFS) Name() string {
	return "broken"
}

type brokenRoot struct {
	err error
}

func (b brokenRoot) Stat(context.Context, string) (os.FileInfo, error) {
	return nil, b.err
}

func (b brokenRoot) Open(context.Context, string) (vfs.File, error) {
	return nil, b.err
}
