package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"gitlab.com/gitlab-org/gitlab-static/internal/vfs"
)

type invalidPathError struct {
	rootPath    string
	requestPath string
}

func (i *invalidPathError) Error() string {
	return fmt.Sprintf("%q should be in %q", i.requestPath, i.rootPath)
}

func (i *invalidPathError) Unwrap() error {
	return vfs.ErrInvalidPath
}

// Root is a directory on the local filesystem. Every name is resolved
// lexically and then physically (through symlinks) and must stay inside
// rootPath.
type Root struct {
	rootPath string
}

func (r *Root) contains(fullPath string) bool {
	return fullPath == r.rootPath || strings.HasPrefix(fullPath, r.rootPath+string(filepath.Separator))
}

// validatePath returns the physical path of name and its path relative to the root
func (r *Root) validatePath(name string) (string, string, error) {
	fullPath := filepath.Join(r.rootPath, name)
	if !r.contains(fullPath) {
		return "", "", &invalidPathError{rootPath: r.rootPath, requestPath: name}
	}

	fullPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return "", "", err
	}

	// a symlink resolved to somewhere outside of the root directory
	if !r.contains(fullPath) {
		return "", "", &invalidPathError{rootPath: r.rootPath, requestPath: name}
	}

	vfsPath := strings.TrimPrefix(strings.TrimPrefix(fullPath, r.rootPath), string(filepath.Separator))

	return fullPath, vfsPath, nil
}

func (r *Root) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	fullPath, _, err := r.validatePath(name)
	if err != nil {
		return nil, err
	}

	return os.Lstat(fullPath)
}

func (r *Root) Open(ctx context.Context, name string) (vfs.File, error) {
	fullPath, _, err := r.validatePath(name)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(fullPath, os.O_RDONLY|unix.O_NOFOLLOW, 0)
	if err != nil {
		return nil, err
	}

	return &file{File: f, name: name}, nil
}

type file struct {
	*os.File
	name string
}

func (f *file) Read(p []byte) (int, error) {
	n, err := f.File.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, vfs.NewReadError(f.name, err)
	}

	return n, err
}
