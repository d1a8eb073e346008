// Copyright (C) 2024-2025  Recibos PT
//
// SPDX-License-Identifier: Apache-2.0

// Package bundle deals with turning the application source into a
// self-contained executable tree via the PyInstaller bundler.
package bundle

import (
	"context"
	"fmt"
	"os"

	goversion "github.com/hashicorp/go-version"

	"github.com/recibospt/relbuild/pkg/fsutil"
	"github.com/recibospt/relbuild/pkg/manifest"
	"github.com/recibospt/relbuild/pkg/pipeline"
)

// Build invokes the bundler described by the manifest, emitting into
// distDir, and verifies that exePath came out the other side.
//
// The version-resource descriptor named by the manifest is regenerated from
// ver before the bundler runs, so the version embedded in the executable's
// file properties always matches the installer's AppVersion and the artifact
// filenames; a hand-edited descriptor cannot drift from the version file.
//
// distDir is removed up front: the postcondition check below is only
// meaningful if a stale executable from a previous run can't satisfy it.
// The bundler exiting 0 without producing exePath is still a stage failure,
// since PyInstaller has been seen to report success on partially broken
// builds.
func Build(
	ctx context.Context,
	run pipeline.Runner,
	m *manifest.Manifest,
	ver *goversion.Version,
	distDir, exePath string,
) error {
	if m.VersionResource != "" {
		if err := writeVersionResource(m.VersionResource, m.Name, ver); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(distDir); err != nil {
		return err
	}

	args := append([]string{"--noconfirm", "--distpath", distDir}, m.BundlerArgs()...)
	if err := run(ctx, "pyinstaller", args...); err != nil {
		return err
	}

	if !fsutil.FileExists(exePath) {
		return &pipeline.MissingArtifactError{Path: exePath}
	}
	return nil
}

// writeVersionResource emits the PyInstaller VSVersionInfo descriptor.  The
// Windows version resource wants a four-field tuple; the fourth field is
// always 0 because releases are identified by the bare triple.
func writeVersionResource(filename, product string, ver *goversion.Version) error {
	seg := ver.Segments()
	tuple := fmt.Sprintf("(%d, %d, %d, 0)", seg[0], seg[1], seg[2])
	body := fmt.Sprintf(`# UTF-8
#
# Generated by relbuild from the .version file; do not edit.
VSVersionInfo(
  ffi=FixedFileInfo(
    filevers=%s,
    prodvers=%s,
    mask=0x3F,
    flags=0x0,
    OS=0x40004,
    fileType=0x1,
    subtype=0x0,
    date=(0, 0)
  ),
  kids=[
    StringFileInfo([
      StringTable('040904B0', [
        StringStruct('ProductName', '%s'),
        StringStruct('FileDescription', '%s'),
        StringStruct('ProductVersion', '%s'),
        StringStruct('FileVersion', '%s')
      ])
    ]),
    VarFileInfo([VarStruct('Translation', [1033, 1200])])
  ]
)
`, tuple, tuple, product, product, ver, ver)
	return os.WriteFile(filename, []byte(body), 0o644)
}
