package main

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recibospt/relbuild/pkg/release"
)

// writeCheckout lays out a minimal repository checkout for the pipeline.
func writeCheckout(t *testing.T, version string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		release.VersionFile:      version + "\n",
		release.ManifestFile:     "Name: PortalRecibos\nEntrypoint: src/main.py\nWindowed: true\n",
		release.RequirementsFile: "requests==2.31.0\n",
		release.InstallerScript:  "[Setup]\nAppVersion={#AppVersion}\n",
		"README.md":              "# PortalRecibos\n",
		"INSTALACAO.md":          "# Instalacao\n",
		"CHANGELOG.md":           "# Changelog\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(body), 0o644))
	}
	return root
}

// fakeTools simulates the external toolchain: pip is a no-op, the bundler
// writes the executable, and the installer compiler writes the installer.
func fakeTools(t *testing.T, rc *release.Context) func(context.Context, string, ...string) error {
	t.Helper()
	return func(_ context.Context, name string, args ...string) error {
		switch {
		case name == "python":
			return nil
		case name == "pyinstaller":
			if err := os.MkdirAll(rc.AppDir(), 0o777); err != nil {
				return err
			}
			return os.WriteFile(rc.ExePath(), []byte("MZ fake exe"), 0o755)
		case strings.HasSuffix(name, "iscc-fake"):
			// the real ISCC creates the output directory itself
			if err := os.MkdirAll(rc.ReleasesDir(), 0o777); err != nil {
				return err
			}
			return os.WriteFile(rc.InstallerPath(), []byte("MZ fake installer "+fmt.Sprint(args)), 0o755)
		default:
			return fmt.Errorf("unexpected tool %q", name)
		}
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	ctx := context.Background()
	root := writeCheckout(t, "1.2.3")

	// no signing credentials; an ISCC override pointing at a fake
	iscc := filepath.Join(t.TempDir(), "iscc-fake")
	require.NoError(t, os.WriteFile(iscc, []byte("#!fake\n"), 0o755))
	t.Setenv("RELBUILD_SIGN_CERT", "")
	t.Setenv("RELBUILD_ISCC", iscc)

	rc, err := release.Load(root)
	require.NoError(t, err)

	require.NoError(t, runPipeline(ctx, rc, fakeTools(t, rc)))

	// exactly one installer, named with the release version
	matches, err := filepath.Glob(filepath.Join(rc.ReleasesDir(), "*.exe"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "PortalRecibos-Setup-1.2.3.exe", filepath.Base(matches[0]))

	// one archive holding installer + 3 docs + note
	zipReader, err := zip.OpenReader(rc.ArchivePath())
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, zipReader.Close())
	}()
	var names []string
	for _, file := range zipReader.File {
		names = append(names, file.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"CHANGELOG.md",
		"INSTALACAO.md",
		"LEIA-ME.txt",
		"PortalRecibos-Setup-1.2.3.exe",
		"README.md",
	}, names)

	// the note's last line is the machine-checkable digest
	note, err := os.ReadFile(filepath.Join(rc.StagingDir(), release.NoteFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(note), "\n"), "\n")
	assert.Regexp(t, regexp.MustCompile(`^SHA256: [0-9a-f]{64}$`), lines[len(lines)-1])
}

func TestPipelineFailFast(t *testing.T) {
	ctx := context.Background()
	root := writeCheckout(t, "1.2.3")
	t.Setenv("RELBUILD_SIGN_CERT", "")

	rc, err := release.Load(root)
	require.NoError(t, err)

	boom := errors.New("pip exited 1")
	var calls int
	err = runPipeline(ctx, rc, func(context.Context, string, ...string) error {
		calls++
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "the pipeline must stop at the first failing required stage")
}

// A broken signing tool must not block the release: the installer and the
// archive are still produced.
func TestPipelineSigningFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	root := writeCheckout(t, "2.0.1")

	iscc := filepath.Join(t.TempDir(), "iscc-fake")
	require.NoError(t, os.WriteFile(iscc, []byte("#!fake\n"), 0o755))
	cert := filepath.Join(t.TempDir(), "release.pfx")
	require.NoError(t, os.WriteFile(cert, []byte("fake cert"), 0o600))
	signtool := filepath.Join(t.TempDir(), "signtool-fake")
	require.NoError(t, os.WriteFile(signtool, []byte("#!fake\n"), 0o755))

	t.Setenv("RELBUILD_ISCC", iscc)
	t.Setenv("RELBUILD_SIGN_CERT", cert)
	t.Setenv("RELBUILD_SIGNTOOL", signtool)

	rc, err := release.Load(root)
	require.NoError(t, err)

	tools := fakeTools(t, rc)
	err = runPipeline(ctx, rc, func(ctx context.Context, name string, args ...string) error {
		if strings.HasSuffix(name, "signtool-fake") {
			return errors.New("signtool exited 1")
		}
		return tools(ctx, name, args...)
	})
	require.NoError(t, err)

	assert.FileExists(t, rc.InstallerPath())
	assert.FileExists(t, rc.ArchivePath())
}

// The standalone sign stage must surface a failed signing attempt through
// the best-effort machinery and still exit 0, and must only touch artifacts
// that exist.
func TestStageSignFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	root := writeCheckout(t, "1.2.3")

	cert := filepath.Join(t.TempDir(), "release.pfx")
	require.NoError(t, os.WriteFile(cert, []byte("fake cert"), 0o600))
	signtool := filepath.Join(t.TempDir(), "signtool-fake")
	require.NoError(t, os.WriteFile(signtool, []byte("#!fake\n"), 0o755))
	t.Setenv("RELBUILD_SIGN_CERT", cert)
	t.Setenv("RELBUILD_SIGNTOOL", signtool)

	rc, err := release.Load(root)
	require.NoError(t, err)

	// only the executable exists; the installer has not been built yet
	require.NoError(t, os.MkdirAll(rc.AppDir(), 0o777))
	require.NoError(t, os.WriteFile(rc.ExePath(), []byte("MZ fake exe"), 0o755))

	var signed []string
	err = signArtifacts(ctx, rc, func(_ context.Context, name string, args ...string) error {
		require.True(t, strings.HasSuffix(name, "signtool-fake"))
		signed = append(signed, args[len(args)-1])
		return errors.New("signtool exited 1")
	})
	assert.NoError(t, err, "a signing failure must not fail the sign stage")
	assert.Equal(t, []string{rc.ExePath()}, signed)
}
