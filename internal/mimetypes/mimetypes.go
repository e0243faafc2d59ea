// Package mimetypes provides the extension to content-type lookup used
// when serving static files.
//
// The lookup table is process-wide: Init should be called once during
// startup, before requests are served. Lookups are read-only afterwards.
package mimetypes

import (
	"mime"
	"path/filepath"
	"strings"
	"sync"

	mimedb "gitlab.com/gitlab-org/go-mimedb"
	"gitlab.com/gitlab-org/labkit/log"
)

// DefaultContentType is used for files whose extension is unknown
const DefaultContentType = "application/octet-stream"

var extraMIMETypes = map[string]string{
	".avif": "image/avif",
}

// Table maps a file extension (including the leading dot) to a content type.
// An unknown extension maps to "".
type Table interface {
	TypeByExtension(ext string) string
}

// Initializer is implemented by tables that must be loaded before use
type Initializer interface {
	Init()
}

// Init calls table's Init when it has one and reports whether it did.
// Tables without an Init are left untouched.
func Init(table interface{}) bool {
	initializer, ok := table.(Initializer)
	if !ok {
		return false
	}

	initializer.Init()

	return true
}

// ContentType returns the content type for name based on its extension,
// falling back to DefaultContentType
func ContentType(table Table, name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return DefaultContentType
	}

	contentType := table.TypeByExtension(ext)
	if contentType == "" {
		contentType = table.TypeByExtension(strings.ToLower(ext))
	}

	if contentType == "" {
		return DefaultContentType
	}

	return contentType
}

// DB is the process MIME table from the mime package, populated from the
// GitLab MIME database on Init
type DB struct {
	once sync.Once
}

// New returns the process MIME table. It is usable before Init, relying on
// the types the platform provides.
func New() *DB {
	return &DB{}
}

// Init loads the MIME database and extra types into the process table.
// Only the first call has any effect.
func (db *DB) Init() {
	db.once.Do(func() {
		if err := mimedb.LoadTypes(); err != nil {
			log.WithError(err).Error("failed to load the MIME database")
		}

		for ext, mimeType := range extraMIMETypes {
			if err := mime.AddExtensionType(ext, mimeType); err != nil {
				log.WithError(err).Errorf("failed to add extension: %q with MIME type: %q", ext, mimeType)
			}
		}
	})
}

// TypeByExtension returns the MIME type associated with ext
func (db *DB) TypeByExtension(ext string) string {
	return mime.TypeByExtension(ext)
}
