// Command relbuild drives the Windows release pipeline for the PortalRecibos
// desktop application: install dependencies, bundle the executable, sign it
// (best effort), compile the installer, and package the release archive.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recibospt/relbuild/pkg/cliutil"
)

var argparser = &cobra.Command{
	Use:   "relbuild {[flags]|SUBCOMMAND...}",
	Short: "Build, sign and package PortalRecibos releases",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,

	SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
	SilenceUsage:  true, // our FlagErrorFunc will handle it
}

func init() {
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
}

func main() {
	ctx := context.Background()

	if err := argparser.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(argparser.ErrOrStderr(), "%s: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
