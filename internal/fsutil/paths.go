package fsutil

import (
	"path"
	"path/filepath"
	"strings"
)

// RelSlash returns target relative to root in slash-separated form. A target
// equal to root yields ".".
func RelSlash(root, target string) (string, error) {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// NormalizeDir turns a user-supplied directory into the slash-separated,
// root-relative form used for containment checks. Absolute paths are made
// relative to root; an empty string means the root itself.
func NormalizeDir(root, dir string) string {
	if dir == "" {
		return "."
	}
	if filepath.IsAbs(dir) {
		if rel, err := RelSlash(root, dir); err == nil {
			return rel
		}
	}
	return path.Clean(filepath.ToSlash(dir))
}

// Contains reports whether p equals dir or lies strictly beneath it. Both are
// slash-separated relative paths. Comparison is per path segment, so "foo"
// contains "foo/bar" but not "foo2" or "foobar/x".
func Contains(dir, p string) bool {
	dir = path.Clean(dir)
	p = path.Clean(p)
	if dir == "." {
		return !strings.HasPrefix(p, "../") && p != ".."
	}
	if p == dir {
		return true
	}
	return strings.HasPrefix(p, dir+"/")
}
