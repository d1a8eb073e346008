// Copyright (C) 2024-2025  Recibos PT
//
// SPDX-License-Identifier: Apache-2.0

// Package cliutil has helpers for setting up cobra the way we like it.
package cliutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// OnlySubcommands is a cobra.PositionalArgs for commands that do nothing
// themselves.  It behaves like cobra.NoArgs, except that an unrecognized
// argument is reported as a bad subcommand (with suggestions) instead of as a
// stray positional argument.
func OnlySubcommands(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	err := fmt.Errorf("invalid subcommand %q", args[0])
	if cmd.SuggestionsMinimumDistance <= 0 {
		cmd.SuggestionsMinimumDistance = 2
	}
	if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
		err = fmt.Errorf("%w\nDid you mean one of these?\n\t%s",
			err, strings.Join(suggestions, "\n\t"))
	}
	return cmd.FlagErrorFunc()(cmd, err)
}

// WrapPositionalArgs routes the errors of an inner cobra.PositionalArgs
// through FlagErrorFunc, so that bad usage is reported consistently no matter
// which validator caught it.
func WrapPositionalArgs(inner cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return FlagErrorFunc(cmd, inner(cmd, args))
	}
}

// RunSubcommands is a cobra.Command.RunE for commands that exist only to hold
// subcommands.  Setting RunE matters even though there is nothing to run;
// without it cobra treats a bare invocation as success, and a typoed
// subcommand shouldn't be success.
func RunSubcommands(cmd *cobra.Command, args []string) error {
	cmd.SetOutput(cmd.ErrOrStderr())
	cmd.HelpFunc()(cmd, args)
	os.Exit(2)
	return nil
}

// FlagErrorFunc is for (*cobra.Command).SetFlagErrorFunc; it gives GNU-ish
// behavior for invalid usage.
//
// On error it calls os.Exit(2) and does NOT return, so everything that comes
// back from (*cobra.Command).Execute is an execution error rather than a
// usage error.
func FlagErrorFunc(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	errStr := strings.TrimRight(err.Error(), "\n")
	if strings.Contains(errStr, "\n") {
		// Multi-line error; insert a blank line before the "See --help" line.
		errStr += "\n"
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\nSee '%s --help' for more information.\n",
		cmd.CommandPath(), errStr, cmd.CommandPath())
	os.Exit(2)
	return nil
}
