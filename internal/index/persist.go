package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Persist writes idx to path as indented JSON with sorted keys. The file is
// written to a temporary sibling first and renamed into place, so readers
// never observe a partial index.
func Persist(fsys afero.Fs, idx *Index, path string) error {
	data, err := json.MarshalIndent(idx.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode module index: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	tmp, err := afero.TempFile(fsys, dir, "."+FileName+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary index file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return fmt.Errorf("failed to write module index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("failed to write module index: %w", err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("failed to move module index into place: %w", err)
	}
	return nil
}

// Load reads the index at path. A missing file yields *IndexMissingError.
func Load(fsys afero.Fs, path string) (*Index, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &IndexMissingError{Path: path}
		}
		return nil, fmt.Errorf("failed to read module index: %w", err)
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("module index at %s is corrupt: %w", path, err)
	}
	return New(entries), nil
}
