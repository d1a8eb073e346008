// Copyright (C) 2024-2025  Recibos PT
//
// SPDX-License-Identifier: Apache-2.0

// Package installer compiles the declarative installer script into a
// single-file installer with the Inno Setup compiler (ISCC).
package installer

import (
	"context"
	"io/fs"

	goversion "github.com/hashicorp/go-version"

	"github.com/recibospt/relbuild/pkg/fsutil"
	"github.com/recibospt/relbuild/pkg/pipeline"
	"github.com/recibospt/relbuild/pkg/toolpath"
)

// Builder wraps one ISCC invocation.
type Builder struct {
	run    pipeline.Runner
	locate func(ctx context.Context) (string, error)
}

func New(run pipeline.Runner) *Builder {
	return &Builder{
		run: run,
		locate: func(ctx context.Context) (string, error) {
			// ISCC is typically not on PATH; probe its stock
			// install locations before falling back to PATH.
			return toolpath.Locate(ctx, "ISCC",
				"install Inno Setup 6 from https://jrsoftware.org/isdl.php, or set RELBUILD_ISCC",
				toolpath.FromEnv("RELBUILD_ISCC"),
				toolpath.FromFiles(
					`C:\Program Files (x86)\Inno Setup 6\ISCC.exe`,
					`C:\Program Files\Inno Setup 6\ISCC.exe`,
				),
				toolpath.FromPath("ISCC"),
			)
		},
	}
}

// Build compiles script into installerPath.
//
// The release version is handed to the compiler as the AppVersion define, so
// the script's AppVersion and OutputBaseFilename derive from the persisted
// version file instead of being hand-edited per release.  appDir must exist
// (the executable stage runs first), and the expected installer file must
// exist afterwards even if the compiler exits 0.
func (b *Builder) Build(
	ctx context.Context,
	script string,
	ver *goversion.Version,
	appDir, outDir, installerPath string,
) error {
	if !fsutil.DirExists(appDir) {
		return &fs.PathError{
			Op:   "build installer",
			Path: appDir,
			Err:  fs.ErrNotExist,
		}
	}

	iscc, err := b.locate(ctx)
	if err != nil {
		return err
	}

	err = b.run(ctx, iscc,
		"/DAppVersion="+ver.String(),
		"/O"+outDir,
		script,
	)
	if err != nil {
		return err
	}

	if !fsutil.FileExists(installerPath) {
		return &pipeline.MissingArtifactError{Path: installerPath}
	}
	return nil
}
