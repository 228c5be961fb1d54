package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NormalizesDependenciesAndTags(t *testing.T) {
	m := New("app", KindApplication, "module", "apps/bar/Blueprint.hcl", []string{"b", "a", "b"}, nil)

	assert.Equal(t, []string{"a", "b"}, m.Dependencies)
	assert.Equal(t, []string{"optional"}, m.Tags)
	assert.Equal(t, "apps/bar", m.DeclaringDir())
	assert.True(t, m.DependsOn("a"))
	assert.False(t, m.DependsOn("c"))
}

func TestNew_RootDeclaration(t *testing.T) {
	m := New("root", KindGeneric, "module", "Blueprint.hcl", nil, []string{"eng"})
	assert.Equal(t, ".", m.DeclaringDir())
	assert.Equal(t, []string{"eng"}, m.Tags)
	assert.Empty(t, m.Dependencies)
}

func TestKindForType(t *testing.T) {
	tests := map[string]Kind{
		"cc_binary":                KindNativeBinary,
		"cc_binary_host":           KindNativeBinary,
		"cc_library":               KindNativeLibrary,
		"cc_library_shared":        KindNativeLibrary,
		"cc_test":                  KindNativeLibrary,
		"java_library":             KindManagedLibrary,
		"android_library":          KindManagedLibrary,
		"android_app":              KindApplication,
		"android_app_import":       KindApplication,
		"android_test":             KindManagedLibrary,
		"android_robolectric_test": KindManagedLibrary,
		"prebuilt_etc":             KindGeneric,
		"module":                   KindGeneric,
	}
	for typ, want := range tests {
		t.Run(typ, func(t *testing.T) {
			assert.Equal(t, want, KindForType(typ))
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("rust-crate")
	assert.ErrorContains(t, err, "unknown module kind")
}

func TestKindClass(t *testing.T) {
	assert.Equal(t, ClassExecutables, KindNativeBinary.Class())
	assert.Equal(t, ClassSharedLibraries, KindNativeLibrary.Class())
	assert.Equal(t, ClassJavaLibraries, KindManagedLibrary.Class())
	assert.Equal(t, ClassApps, KindApplication.Class())
	assert.Equal(t, ClassUnknown, KindGeneric.Class())
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, Pending.Terminal())
	assert.False(t, Running.Terminal())
	assert.True(t, Done.Terminal())
	assert.True(t, Skipped.Terminal())
	assert.Equal(t, "skipped", Skipped.String())
}

func TestPhases_Order(t *testing.T) {
	assert.Equal(t, []Phase{PhaseStub, PhaseHeader, PhaseCompile, PhaseLink}, Phases)
}
