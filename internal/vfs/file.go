package vfs

import "io"

// File is an opened regular file inside a Root. Read failures other than
// io.EOF are reported as *ReadError.
type File interface {
	io.ReadCloser
}
