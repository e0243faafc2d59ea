package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/gitlab-org/gitlab-static/internal/lru"
	"gitlab.com/gitlab-org/gitlab-static/internal/vfs"
	"gitlab.com/gitlab-org/gitlab-static/metrics"
)

var errNotDirectory = errors.New("path needs to be a directory")

// VFS serves roots from the local filesystem
type VFS struct {
	roots *lru.Cache
}

// New returns a local VFS caching up to cacheSize resolved roots for expiry.
// A cacheSize of 0 disables caching.
func New(cacheSize int64, expiry time.Duration) *VFS {
	if cacheSize <= 0 {
		return &VFS{}
	}

	return &VFS{
		roots: lru.New("vfs_root", cacheSize, expiry, metrics.RootCachedEntries, metrics.RootCacheRequests),
	}
}

// Root returns the directory at path as a vfs.Root. Symlinks in path are
// evaluated so containment checks compare physical locations.
func (localFs *VFS) Root(ctx context.Context, path string) (vfs.Root, error) {
	if localFs.roots == nil {
		root, err := newRoot(path)
		if err != nil {
			return nil, err
		}

		return root, nil
	}

	root, err := localFs.roots.FindOrFetch(path, func() (interface{}, error) {
		return newRoot(path)
	})
	if err != nil {
		return nil, err
	}

	return root.(vfs.Root), nil
}

// Name of the VFS, used in metrics and logs
func (localFs *VFS) Name() string {
	return "local"
}

// Stop releases the root cache
func (localFs *VFS) Stop() {
	if localFs.roots != nil {
		localFs.roots.Stop()
	}
}

func newRoot(path string) (*Root, error) {
	rootPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	rootPath, err = filepath.EvalSymlinks(rootPath)
	if err != nil {
		return nil, fmt.Errorf("could not evaluate symlinks: %w", err)
	}

	fi, err := os.Lstat(rootPath)
	if err != nil {
		return nil, err
	}

	if !fi.Mode().IsDir() {
		return nil, errNotDirectory
	}

	return &Root{rootPath: rootPath}, nil
}
