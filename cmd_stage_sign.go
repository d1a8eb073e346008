package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/recibospt/relbuild/pkg/cliutil"
	"github.com/recibospt/relbuild/pkg/fsutil"
	"github.com/recibospt/relbuild/pkg/pipeline"
	"github.com/recibospt/relbuild/pkg/release"
	"github.com/recibospt/relbuild/pkg/sign"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign the built executable and installer (best effort)",
		Long: "Sign whichever of the bundled executable and the installer exist.  " +
			"With no RELBUILD_SIGN_CERT configured this is a no-op, not an error; " +
			"a signing failure is reported as a warning but exits 0, because an " +
			"unsigned build is still distributable.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(flags *cobra.Command, _ []string) error {
			rc, err := release.Load(".")
			if err != nil {
				return err
			}
			return signArtifacts(flags.Context(), rc, pipeline.ExecRunner)
		},
	}
	argparserStage.AddCommand(cmd)
}

// signArtifacts signs the artifacts that exist so far.  Each one is its own
// best-effort stage, so a failed signing attempt is surfaced as a warning
// the same way it is during a full pipeline run, without failing the
// command.
func signArtifacts(ctx context.Context, rc *release.Context, run pipeline.Runner) error {
	signer := sign.New(rc.Signing, run)

	var stages []pipeline.Stage
	for _, artifact := range []string{rc.ExePath(), rc.InstallerPath()} {
		if !fsutil.FileExists(artifact) {
			continue
		}
		artifact := artifact
		stages = append(stages, pipeline.Stage{
			Name:       "sign " + filepath.Base(artifact),
			BestEffort: true,
			Run: func(ctx context.Context) error {
				return signer.Artifact(ctx, artifact).Err()
			},
		})
	}
	return pipeline.Run(ctx, stages...)
}
