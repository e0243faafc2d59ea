package testhelpers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/gitlab-static/internal/vfs"
	"gitlab.com/gitlab-org/gitlab-static/internal/vfs/local"
)

var fs = vfs.Instrumented(local.New(0, 0))

// TmpDir creates a temporary directory and returns it both as a vfs.Root
// and as its physical path
func TmpDir(tb testing.TB) (vfs.Root, string) {
	tb.Helper()

	var err error
	tmpDir := tb.TempDir()

	// On some systems `/tmp` can be a symlink
	tmpDir, err = filepath.EvalSymlinks(tmpDir)
	require.NoError(tb, err)

	root, err := fs.Root(context.Background(), tmpDir)
	require.NoError(tb, err)

	return root, tmpDir
}
