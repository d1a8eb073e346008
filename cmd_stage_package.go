package main

import (
	"github.com/spf13/cobra"

	"github.com/recibospt/relbuild/pkg/cliutil"
	"github.com/recibospt/relbuild/pkg/pack"
	"github.com/recibospt/relbuild/pkg/release"
)

func init() {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Assemble the compressed release archive",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(flags *cobra.Command, _ []string) error {
			rc, err := release.Load(".")
			if err != nil {
				return err
			}
			return pack.Release(flags.Context(), pack.Input{
				AppName:     rc.App.Name,
				Version:     rc.Version.String(),
				Installer:   rc.InstallerPath(),
				Docs:        rc.DocPaths(),
				StagingDir:  rc.StagingDir(),
				NoteName:    release.NoteFile,
				ArchivePath: rc.ArchivePath(),
			})
		},
	}
	argparserStage.AddCommand(cmd)
}
