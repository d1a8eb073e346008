package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/recibospt/relbuild/pkg/bundle"
	"github.com/recibospt/relbuild/pkg/cliutil"
	"github.com/recibospt/relbuild/pkg/deps"
	"github.com/recibospt/relbuild/pkg/installer"
	"github.com/recibospt/relbuild/pkg/pack"
	"github.com/recibospt/relbuild/pkg/pipeline"
	"github.com/recibospt/relbuild/pkg/release"
	"github.com/recibospt/relbuild/pkg/sign"
)

func init() {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Run the full release pipeline",
		Long: "Run the whole pipeline in order: install dependencies, bundle the " +
			"executable, sign it (best effort), compile the installer, sign that too " +
			"(best effort), and package the release archive.  Takes no arguments; " +
			"everything is read from the working directory and the environment.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(flags *cobra.Command, _ []string) error {
			rc, err := release.Load(".")
			if err != nil {
				return err
			}
			return runPipeline(flags.Context(), rc, pipeline.ExecRunner)
		},
	}
	argparser.AddCommand(cmd)
}

// runPipeline wires the stages together in their fixed order.  Only the two
// signing stages are best-effort; everything else is fail-fast.
func runPipeline(ctx context.Context, rc *release.Context, run pipeline.Runner) error {
	signer := sign.New(rc.Signing, run)

	return pipeline.Run(ctx,
		pipeline.Stage{
			Name: "install dependencies",
			Run: func(ctx context.Context) error {
				return deps.Install(ctx, run, rc.RequirementsPath())
			},
		},
		pipeline.Stage{
			Name: "build executable",
			Run: func(ctx context.Context) error {
				return bundle.Build(ctx, run, rc.App, rc.Version, rc.DistDir(), rc.ExePath())
			},
		},
		pipeline.Stage{
			Name:       "sign executable",
			BestEffort: true,
			Run: func(ctx context.Context) error {
				return signer.Artifact(ctx, rc.ExePath()).Err()
			},
		},
		pipeline.Stage{
			Name: "build installer",
			Run: func(ctx context.Context) error {
				return installer.New(run).Build(ctx,
					rc.ScriptPath(), rc.Version,
					rc.AppDir(), rc.ReleasesDir(), rc.InstallerPath())
			},
		},
		pipeline.Stage{
			Name:       "sign installer",
			BestEffort: true,
			Run: func(ctx context.Context) error {
				return signer.Artifact(ctx, rc.InstallerPath()).Err()
			},
		},
		pipeline.Stage{
			Name: "package release",
			Run: func(ctx context.Context) error {
				return pack.Release(ctx, pack.Input{
					AppName:     rc.App.Name,
					Version:     rc.Version.String(),
					Installer:   rc.InstallerPath(),
					Docs:        rc.DocPaths(),
					StagingDir:  rc.StagingDir(),
					NoteName:    release.NoteFile,
					ArchivePath: rc.ArchivePath(),
				})
			},
		},
	)
}
