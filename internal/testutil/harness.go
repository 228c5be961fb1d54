package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// LogContext returns a context carrying a debug-level JSON logger that writes
// into the returned buffer.
func LogContext(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// WriteTree writes files, keyed by root-relative slash paths, into fs under
// root and returns root.
func WriteTree(t *testing.T, fs afero.Fs, root string, files map[string]string) string {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0o644))
	}
	return root
}

// MemTree returns an in-memory filesystem holding files under "/src".
func MemTree(t *testing.T, files map[string]string) (afero.Fs, string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return fs, WriteTree(t, fs, "/src", files)
}

// DiskTree writes files into a fresh temporary directory on the real
// filesystem and returns its path.
func DiskTree(t *testing.T, files map[string]string) string {
	t.Helper()
	return WriteTree(t, afero.NewOsFs(), t.TempDir(), files)
}

// FileExists reports whether path exists on disk.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
