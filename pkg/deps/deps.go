// Package deps installs the build environment's Python dependencies.
package deps

import (
	"context"
	"io/fs"

	"github.com/recibospt/relbuild/pkg/fsutil"
	"github.com/recibospt/relbuild/pkg/pipeline"
)

// Install runs pip against the pinned requirements file.  A non-zero exit is
// fatal for the pipeline; a transient network failure is surfaced to the
// operator rather than retried.
func Install(ctx context.Context, run pipeline.Runner, requirements string) error {
	if !fsutil.FileExists(requirements) {
		return &fs.PathError{
			Op:   "install dependencies",
			Path: requirements,
			Err:  fs.ErrNotExist,
		}
	}
	return run(ctx, "python", "-m", "pip", "install", "-r", requirements)
}
