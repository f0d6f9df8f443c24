package filesystem

import (
	"path/filepath"
	"strings"
)

const fileScheme = "file://"

// FileURI converts a local path into the URI carried on raw documents.
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return fileScheme + filepath.ToSlash(path)
}

// ResolvePath converts a file:// URI back to a local path.
// Bare paths pass through unchanged.
func ResolvePath(uri string) string {
	if strings.HasPrefix(uri, fileScheme) {
		return filepath.FromSlash(strings.TrimPrefix(uri, fileScheme))
	}
	return uri
}
