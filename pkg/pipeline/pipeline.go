// Copyright (C) 2024-2025  Recibos PT
//
// SPDX-License-Identifier: Apache-2.0

// Package pipeline runs the release stages in fixed order with fail-fast
// semantics.
//
// Every stage is a blocking call; there is no concurrency between stages
// because each one consumes the filesystem output of the previous one.  The
// single deliberate exception to fail-fast is a best-effort stage (signing):
// its failure is surfaced as a warning and the pipeline keeps going, because
// an unsigned build is still a distributable build, while a required stage's
// failure aborts the run immediately.  There is no retry logic anywhere;
// transient failures mean a full re-run.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/dexec"
	"github.com/datawire/dlib/dlog"
)

// A Runner invokes an external tool and blocks until it exits, returning an
// error for a non-zero exit status.  Stages take a Runner instead of calling
// exec themselves so that tests can substitute a fake tool.
type Runner func(ctx context.Context, name string, args ...string) error

// ExecRunner is the production Runner; it logs the command line and streams
// all tool output to stderr.
func ExecRunner(ctx context.Context, name string, args ...string) error {
	cmd := dexec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// A Stage is one step of the release pipeline.
type Stage struct {
	Name string

	// BestEffort marks the stage's failure as non-fatal: it is logged as
	// a warning and the pipeline continues.
	BestEffort bool

	Run func(ctx context.Context) error
}

// Run executes the stages in order, stopping at the first failing required
// stage.  The returned error is the failing stage's error, wrapped with the
// stage name.
func Run(ctx context.Context, stages ...Stage) error {
	for _, stage := range stages {
		dlog.Infof(ctx, "=== %s", stage.Name)
		err := stage.Run(ctx)
		if err == nil {
			continue
		}
		if stage.BestEffort {
			dlog.Warnf(ctx, "%s: %v (continuing: stage is best-effort)", stage.Name, err)
			continue
		}
		return fmt.Errorf("stage %s: %w", stage.Name, err)
	}
	return nil
}

// MissingArtifactError is a postcondition failure: a tool exited 0 but the
// artifact it was supposed to produce does not exist.  It guards against
// tools that report success on partial failure, and is treated exactly like a
// non-zero exit.
type MissingArtifactError struct {
	Path string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("tool reported success, but expected artifact %q was not produced", e.Path)
}
