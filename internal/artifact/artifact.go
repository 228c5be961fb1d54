// Package artifact writes the placeholder outputs of built modules.
package artifact

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/module"
	"github.com/spf13/afero"
)

// DefaultOutDir is the output directory, relative to the source root, used
// when none is configured.
const DefaultOutDir = "out/target/product/generic"

// Artifact records one produced output file.
type Artifact struct {
	// ModulePath is the absolute path of the written file.
	ModulePath string
	ProducedAt time.Time
	// Source is the module the artifact was built from. It is not owned.
	Source *module.Module
}

// Path returns where the artifact for a module of the given kind and name is
// installed under outDir. It performs no I/O.
func Path(outDir string, kind module.Kind, name string) string {
	var sub string
	switch {
	case kind.IsNative():
		sub = "lib64"
	case kind.IsManaged() || kind == module.KindApplication:
		sub = "framework"
	default:
		sub = "etc"
	}
	return filepath.Join(outDir, "system", sub, name)
}

// Writer writes artifacts beneath an output directory.
type Writer struct {
	fs     afero.Fs
	outDir string
	now    func() time.Time
}

// NewWriter creates a Writer rooted at outDir on fs.
func NewWriter(fs afero.Fs, outDir string) *Writer {
	return &Writer{fs: fs, outDir: outDir, now: time.Now}
}

// OutDir returns the directory artifacts are written beneath.
func (w *Writer) OutDir() string {
	return w.outDir
}

// Write creates the artifact file for m, creating parent directories as
// needed. Writing the same module twice overwrites the previous file.
func (w *Writer) Write(ctx context.Context, m *module.Module) (*Artifact, error) {
	p := Path(w.outDir, m.Kind, m.Name)
	producedAt := w.now().UTC()

	if err := w.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory for %s: %w", m.Name, err)
	}

	content := fmt.Sprintf("module: %s\nkind: %s\ntype: %s\nsource: %s\nproduced_at: %s\n",
		m.Name, m.Kind, m.Type, m.DeclaringPath, producedAt.Format(time.RFC3339Nano))
	if err := afero.WriteFile(w.fs, p, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write artifact for %s: %w", m.Name, err)
	}

	ctxlog.FromContext(ctx).Debug("Artifact written.", "module", m.Name, "path", p)
	return &Artifact{ModulePath: p, ProducedAt: producedAt, Source: m}, nil
}
