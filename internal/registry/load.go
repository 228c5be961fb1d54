package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/burstbuild/internal/config"
	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/dag"
	"github.com/specialistvlad/burstbuild/internal/fsutil"
	"github.com/spf13/afero"
)

// Load scans root for declaration files and builds the module graph. Files
// are processed in sorted path order so duplicate reports are stable. On any
// error the returned graph is nil.
func (r *Registry) Load(ctx context.Context, root string) (*dag.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading declarations from source root...", "root", root, "file_name", r.fileName)

	filePaths, err := fsutil.FindFilesByName(r.fs, root, r.fileName, r.skipDirs...)
	if err != nil {
		logger.Error("Failed to walk source root", "root", root, "error", err)
		return nil, fmt.Errorf("failed to scan source root %s: %w", root, err)
	}
	if len(filePaths) == 0 {
		logger.Warn("No declaration files found under source root", "root", root, "file_name", r.fileName)
	}
	logger.Debug("Found declaration files to load", "count", len(filePaths))

	graph := dag.New(root)
	declaredIn := make(map[string]string)

	for _, filePath := range filePaths {
		decls, err := r.loadFile(ctx, root, filePath)
		if err != nil {
			return nil, err
		}

		for _, decl := range decls {
			if prev, ok := declaredIn[decl.Name]; ok {
				return nil, &DuplicateModuleError{Name: decl.Name, Path: decl.Location(), PreviousPath: prev}
			}
			declaredIn[decl.Name] = decl.Location()

			if err := graph.AddModule(decl.Module()); err != nil {
				return nil, err
			}
		}
		logger.Debug("Successfully loaded declarations from file", "file", filePath, "modules", len(decls))
	}

	if err := graph.Link(); err != nil {
		return nil, err
	}

	logger.Info("Registry loaded successfully.", "files", len(filePaths), "modules", graph.Len())
	return graph, nil
}

func (r *Registry) loadFile(ctx context.Context, root, filePath string) ([]*config.Declaration, error) {
	rel, err := fsutil.RelSlash(root, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to relativize %s: %w", filePath, err)
	}

	src, err := afero.ReadFile(r.fs, filePath)
	if err != nil {
		return nil, &config.ParseError{Path: rel, Msg: "unreadable declaration file", Err: err}
	}

	decls, err := r.loader.Load(ctx, rel, src)
	if err != nil {
		return nil, err
	}
	return decls, nil
}
