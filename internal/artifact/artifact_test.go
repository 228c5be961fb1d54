package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/burstbuild/internal/module"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	out := filepath.FromSlash("/out")
	tests := []struct {
		kind module.Kind
		want string
	}{
		{module.KindNativeBinary, "/out/system/lib64/m"},
		{module.KindNativeLibrary, "/out/system/lib64/m"},
		{module.KindManagedLibrary, "/out/system/framework/m"},
		{module.KindApplication, "/out/system/framework/m"},
		{module.KindGeneric, "/out/system/etc/m"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), Path(out, tt.kind, "m"))
		})
	}
}

func TestPath_FromBlockType(t *testing.T) {
	out := filepath.FromSlash("/out")
	for typ, want := range map[string]string{
		"android_test":       "/out/system/framework/m",
		"android_app_import": "/out/system/framework/m",
		"cc_test":            "/out/system/lib64/m",
		"prebuilt_etc":       "/out/system/etc/m",
	} {
		assert.Equal(t, filepath.FromSlash(want), Path(out, module.KindForType(typ), "m"), typ)
	}
}

func TestWriter_Write(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, "/out")
	fixed := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	m := module.New("libfoo", module.KindNativeLibrary, "cc_library", "libs/foo/Blueprint.hcl", nil, nil)
	a, err := w.Write(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, Path("/out", m.Kind, m.Name), a.ModulePath)
	assert.Equal(t, fixed, a.ProducedAt)
	assert.Same(t, m, a.Source)

	data, err := afero.ReadFile(fs, a.ModulePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "module: libfoo\n")
	assert.Contains(t, string(data), "kind: native-library\n")
	assert.Contains(t, string(data), "produced_at: 2025-03-04T05:06:07Z\n")
}

func TestWriter_WriteIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, "/out")
	m := module.New("init.rc", module.KindGeneric, "prebuilt_etc", "Blueprint.hcl", nil, nil)

	first, err := w.Write(context.Background(), m)
	require.NoError(t, err)
	second, err := w.Write(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, first.ModulePath, second.ModulePath)

	entries, err := afero.ReadDir(fs, filepath.Dir(first.ModulePath))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriter_WriteFailure(t *testing.T) {
	w := NewWriter(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/out")
	m := module.New("app", module.KindApplication, "android_app", "Blueprint.hcl", nil, nil)

	_, err := w.Write(context.Background(), m)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.ErrorContains(t, err, "app")
}
