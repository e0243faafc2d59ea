package resource

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyLocator is returned when parsing an empty locator
	ErrEmptyLocator = errors.New("resource locator cannot be empty")
	// ErrUnknownNamespace is returned by Namespaces when a namespace is not registered
	ErrUnknownNamespace = errors.New("unknown namespace")
	// ErrOutsideNamespace is returned when a docroot escapes its namespace base directory
	ErrOutsideNamespace = errors.New("docroot resolves outside of its namespace")
)

const namespaceSeparator = ":"

// Locator identifies a directory as a docroot relative to a namespace,
// written as "<namespace>:<docroot>". A locator holding an absolute
// docroot has no namespace.
type Locator struct {
	Namespace string
	Docroot   string
}

// ParseLocator parses "<namespace>:<docroot>". An absolute path is used
// verbatim and a bare relative path belongs to the default namespace "".
func ParseLocator(s string) (Locator, error) {
	if s == "" {
		return Locator{}, ErrEmptyLocator
	}

	if filepath.IsAbs(s) {
		return Locator{Docroot: filepath.Clean(s)}, nil
	}

	namespace, docroot := "", s
	if i := strings.Index(s, namespaceSeparator); i >= 0 {
		namespace, docroot = s[:i], s[i+1:]
	}

	if docroot == "" {
		return Locator{}, fmt.Errorf("resource locator %q: docroot cannot be empty", s)
	}

	if filepath.IsAbs(docroot) {
		return Locator{}, fmt.Errorf("resource locator %q: docroot must be relative to its namespace", s)
	}

	return Locator{Namespace: namespace, Docroot: docroot}, nil
}

// IsAbs reports whether the locator points to an absolute directory
func (l Locator) IsAbs() bool {
	return filepath.IsAbs(l.Docroot)
}

// String returns the locator in its "<namespace>:<docroot>" form
func (l Locator) String() string {
	if l.IsAbs() {
		return l.Docroot
	}

	return l.Namespace + namespaceSeparator + l.Docroot
}

// Resolve returns the absolute directory the locator points to
func (l Locator) Resolve(namespaces Namespaces) (string, error) {
	if l.IsAbs() {
		return l.Docroot, nil
	}

	base, err := namespaces.BaseDir(l.Namespace)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", l.String(), err)
	}

	base, err = filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", l.String(), err)
	}

	dir := filepath.Join(base, l.Docroot)
	if dir != base && !strings.HasPrefix(dir, base+string(filepath.Separator)) {
		return "", fmt.Errorf("resolving %q: %w", l.String(), ErrOutsideNamespace)
	}

	return dir, nil
}
