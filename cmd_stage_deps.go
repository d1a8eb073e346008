package main

import (
	"github.com/spf13/cobra"

	"github.com/recibospt/relbuild/pkg/cliutil"
	"github.com/recibospt/relbuild/pkg/deps"
	"github.com/recibospt/relbuild/pkg/pipeline"
	"github.com/recibospt/relbuild/pkg/release"
)

func init() {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Install build dependencies from requirements.txt",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(flags *cobra.Command, _ []string) error {
			rc, err := release.Load(".")
			if err != nil {
				return err
			}
			return deps.Install(flags.Context(), pipeline.ExecRunner, rc.RequirementsPath())
		},
	}
	argparserStage.AddCommand(cmd)
}
