package staticview

import (
	"net/url"
	"path/filepath"
	"strings"
)

// separators are rejected inside a decoded segment regardless of the host
// platform, together with the host's own separator
const separators = `/\` + string(filepath.Separator)

// SplitPath splits an escaped URL path into its still-escaped segments.
// One leading slash is dropped and a trailing slash, which marks a
// directory, is dropped as well. Both "" and "/" have no segments.
func SplitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(p, "/"), "/")
}

// securePath decodes segments and joins them into a relative filesystem
// path. It reports false when any decoded segment is empty, "." or "..",
// or contains a separator or NUL byte. No segments yield "".
func securePath(segments []string) (string, bool) {
	parts := make([]string, 0, len(segments))

	for _, segment := range segments {
		decoded, err := url.PathUnescape(segment)
		if err != nil {
			return "", false
		}

		switch {
		case decoded == "", decoded == ".", decoded == "..":
			return "", false
		case strings.ContainsAny(decoded, separators), strings.ContainsRune(decoded, 0):
			return "", false
		}

		parts = append(parts, decoded)
	}

	return filepath.Join(parts...), true
}
