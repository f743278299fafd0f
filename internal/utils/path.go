// Package utils holds the path helper shared by the configuration and output
// packages. Relative log file paths are confined to the system temporary
// directory; absolute paths are accepted only when they already live there.
package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hyp3rd/ewrap"
)

var (
	// ErrEmptyPath is returned for an empty log file path.
	ErrEmptyPath = ewrap.New("log file path is empty")
	// ErrPathTraversal is returned for paths containing "..".
	ErrPathTraversal = ewrap.New("log file path contains a traversal sequence")
	// ErrPathOutsideRoot is returned for paths that end up outside the temporary directory.
	ErrPathOutsideRoot = ewrap.New("log file path is outside the temporary directory")
)

// SecurePath resolves a log file path inside os.TempDir.
//
// Relative paths are joined onto the temporary directory. Absolute paths are
// returned unchanged when they are inside it. A path whose existing target
// resolves through a symlink to somewhere else is rejected.
func SecurePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	cleaned := filepath.Clean(path)
	if hasTraversal(cleaned) {
		return "", ewrap.Wrap(ErrPathTraversal, "securing path").WithMetadata("path", path)
	}

	root := filepath.Clean(os.TempDir())

	full := cleaned
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, cleaned)
	}

	if !within(root, full) {
		return "", ewrap.Wrap(ErrPathOutsideRoot, "securing path").WithMetadata("path", path)
	}

	resolved, err := filepath.EvalSymlinks(full)
	if err == nil && !within(resolvedRoot(root), resolved) {
		return "", ewrap.Wrap(ErrPathOutsideRoot, "resolving symlinks").
			WithMetadata("path", path).
			WithMetadata("resolved", resolved)
	}

	return full, nil
}

func hasTraversal(path string) bool {
	for part := range strings.SplitSeq(filepath.ToSlash(path), "/") {
		if part == ".." {
			return true
		}
	}

	return false
}

// within reports whether target is root or below it.
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolvedRoot follows symlinks on the temporary directory itself, as on
// macOS where /tmp points at /private/tmp.
func resolvedRoot(root string) string {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return root
	}

	return resolved
}
