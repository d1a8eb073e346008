package main

import (
	"github.com/spf13/cobra"

	"github.com/recibospt/relbuild/pkg/cliutil"
	"github.com/recibospt/relbuild/pkg/installer"
	"github.com/recibospt/relbuild/pkg/pipeline"
	"github.com/recibospt/relbuild/pkg/release"
)

func init() {
	cmd := &cobra.Command{
		Use:   "installer",
		Short: "Compile the versioned single-file installer",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(flags *cobra.Command, _ []string) error {
			rc, err := release.Load(".")
			if err != nil {
				return err
			}
			return installer.New(pipeline.ExecRunner).Build(flags.Context(),
				rc.ScriptPath(), rc.Version,
				rc.AppDir(), rc.ReleasesDir(), rc.InstallerPath())
		},
	}
	argparserStage.AddCommand(cmd)
}
