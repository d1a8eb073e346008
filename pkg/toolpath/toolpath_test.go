package toolpath

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, filename string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filename, []byte("#!fake\n"), 0o755))
	return filename
}

func TestLocateFirstHitWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tmpdir := t.TempDir()

	first := touch(t, filepath.Join(tmpdir, "first.exe"))
	second := touch(t, filepath.Join(tmpdir, "second.exe"))

	exe, err := Locate(ctx, "tool", "",
		FromFiles(filepath.Join(tmpdir, "missing.exe"), first),
		FromFiles(second),
	)
	require.NoError(t, err)
	assert.Equal(t, first, exe)
}

func TestLocateNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := Locate(ctx, "ISCC", "install Inno Setup 6",
		FromFiles(filepath.Join(t.TempDir(), "nope.exe")),
	)
	require.Error(t, err)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "ISCC", notFound.Tool)
	assert.Contains(t, err.Error(), `"ISCC"`)
	assert.Contains(t, err.Error(), "install Inno Setup 6")
}

func TestFromEnv(t *testing.T) {
	ctx := context.Background()
	exe := touch(t, filepath.Join(t.TempDir(), "tool.exe"))

	// unset: miss
	if _, ok := FromEnv("RELBUILD_TEST_TOOL")(ctx); ok {
		t.Fatal("expected a miss for an unset variable")
	}

	// set to an existing file: hit
	t.Setenv("RELBUILD_TEST_TOOL", exe)
	got, ok := FromEnv("RELBUILD_TEST_TOOL")(ctx)
	assert.True(t, ok)
	assert.Equal(t, exe, got)

	// set to a missing file: miss, so the chain can keep probing
	t.Setenv("RELBUILD_TEST_TOOL", exe+"-gone")
	_, ok = FromEnv("RELBUILD_TEST_TOOL")(ctx)
	assert.False(t, ok)
}

// Versioned SDK install directories: the newest version's tool must win.
func TestFromGlobPrefersNewest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bin := filepath.Join(t.TempDir(), "bin")

	older := filepath.Join(bin, "10.0.19041.0", "x64")
	newer := filepath.Join(bin, "10.0.22621.0", "x64")
	require.NoError(t, os.MkdirAll(older, 0o777))
	require.NoError(t, os.MkdirAll(newer, 0o777))
	touch(t, filepath.Join(older, "signtool.exe"))
	want := touch(t, filepath.Join(newer, "signtool.exe"))

	got, ok := FromGlob(filepath.Join(bin, "10.0.*", "x64", "signtool.exe"))(ctx)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestFromGlobMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, ok := FromGlob(filepath.Join(t.TempDir(), "10.0.*", "signtool.exe"))(ctx)
	assert.False(t, ok)
}

func TestFromPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, ok := FromPath("relbuild-no-such-tool-on-path")(ctx)
	assert.False(t, ok)
}
