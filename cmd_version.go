package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/recibospt/relbuild/pkg/cliutil"
	"github.com/recibospt/relbuild/pkg/release"
	"github.com/recibospt/relbuild/pkg/relversion"
)

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the release version from the version file",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(flags *cobra.Command, _ []string) error {
			ver, err := relversion.ReadFile(filepath.Join(".", release.VersionFile))
			if err != nil {
				return err
			}
			fmt.Fprintln(flags.OutOrStdout(), ver)
			return nil
		},
	}

	var bumpMinor, bumpMajor bool
	bump := &cobra.Command{
		Use:   "bump [flags]",
		Short: "Increment the persisted release version",
		Long: "Increment the version file in place.  The default is a patch bump; " +
			"--minor and --major reset the lesser fields to zero.  This is the only " +
			"operation in relbuild that writes the version file; the build stages " +
			"themselves never mutate it.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(flags *cobra.Command, _ []string) error {
			if bumpMinor && bumpMajor {
				return fmt.Errorf("--minor and --major are mutually exclusive")
			}
			filename := filepath.Join(".", release.VersionFile)
			old, err := relversion.ReadFile(filename)
			if err != nil {
				return err
			}
			part := relversion.Patch
			switch {
			case bumpMajor:
				part = relversion.Major
			case bumpMinor:
				part = relversion.Minor
			}
			next, err := relversion.Bump(old, part)
			if err != nil {
				return err
			}
			if err := relversion.WriteFile(filename, next); err != nil {
				return err
			}
			fmt.Fprintf(flags.OutOrStdout(), "%s -> %s\n", old, next)
			return nil
		},
	}
	bump.Flags().BoolVar(&bumpMinor, "minor", false, "Bump the minor version instead of the patch version")
	bump.Flags().BoolVar(&bumpMajor, "major", false, "Bump the major version instead of the patch version")
	cmd.AddCommand(bump)

	argparser.AddCommand(cmd)
}
