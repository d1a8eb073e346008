package main

import (
	"github.com/spf13/cobra"

	"github.com/recibospt/relbuild/pkg/cliutil"
)

var argparserStage = &cobra.Command{
	Use:   "stage {[flags]|SUBCOMMAND...}",
	Short: "Run a single pipeline stage",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserStage)
}
