// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// FindFilesByName recursively searches rootPath on fsys for files whose base
// name equals fileName. Directories listed in skipDirs (absolute or relative
// to rootPath) are not descended into. The result is sorted so that callers
// observe a stable declaration order.
func FindFilesByName(fsys afero.Fs, rootPath, fileName string, skipDirs ...string) ([]string, error) {
	if fileName == "" {
		panic("fileName must not be empty")
	}

	skip := make(map[string]struct{}, len(skipDirs))
	for _, d := range skipDirs {
		if !filepath.IsAbs(d) {
			d = filepath.Join(rootPath, d)
		}
		skip[filepath.Clean(d)] = struct{}{}
	}

	var files []string
	err := afero.Walk(fsys, rootPath, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if _, ok := skip[filepath.Clean(path)]; ok {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() == fileName {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
