package main

import (
	"github.com/spf13/cobra"

	"github.com/recibospt/relbuild/pkg/bundle"
	"github.com/recibospt/relbuild/pkg/cliutil"
	"github.com/recibospt/relbuild/pkg/pipeline"
	"github.com/recibospt/relbuild/pkg/release"
)

func init() {
	cmd := &cobra.Command{
		Use:   "exe",
		Short: "Bundle the application into a self-contained executable",
		Long: "Clear dist/ and run the bundler against bundle.yml, then verify the " +
			"expected executable actually exists.  A bundler that exits 0 without " +
			"producing the executable still fails this stage.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(flags *cobra.Command, _ []string) error {
			rc, err := release.Load(".")
			if err != nil {
				return err
			}
			return bundle.Build(flags.Context(), pipeline.ExecRunner,
				rc.App, rc.Version, rc.DistDir(), rc.ExePath())
		},
	}
	argparserStage.AddCommand(cmd)
}
