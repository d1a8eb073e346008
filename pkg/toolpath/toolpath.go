// Copyright (C) 2024-2025  Recibos PT
//
// SPDX-License-Identifier: Apache-2.0

// Package toolpath locates external tools that may not be on the search
// path, such as the Inno Setup compiler or signtool.
//
// A tool is looked up through an ordered list of resolvers; the first
// resolver that yields an existing file wins.  When every resolver misses,
// Locate returns a *NotFoundError carrying a remediation hint for the
// operator.
package toolpath

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/datawire/dlib/dexec"

	"github.com/recibospt/relbuild/pkg/fsutil"
)

// A Resolver proposes a location for a tool.  The bool reports whether the
// returned path is usable.
type Resolver func(ctx context.Context) (string, bool)

// FromEnv resolves through an explicit environment-variable override.  The
// variable being unset is a miss, not an error.
func FromEnv(key string) Resolver {
	return func(_ context.Context) (string, bool) {
		val := os.Getenv(key)
		return val, val != "" && fsutil.FileExists(val)
	}
}

// FromFiles resolves against a fixed set of known install locations.
func FromFiles(candidates ...string) Resolver {
	return func(_ context.Context) (string, bool) {
		for _, c := range candidates {
			if fsutil.FileExists(c) {
				return c, true
			}
		}
		return "", false
	}
}

// FromGlob resolves against glob patterns, for tools that live under
// versioned install directories (the Windows SDK puts signtool under
// bin\10.0.NNNNN.0\<arch>).  The lexically greatest match wins, which for
// those directory names is the newest SDK.
func FromGlob(patterns ...string) Resolver {
	return func(_ context.Context) (string, bool) {
		for _, pattern := range patterns {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				continue
			}
			sort.Strings(matches)
			for i := len(matches) - 1; i >= 0; i-- {
				if fsutil.FileExists(matches[i]) {
					return matches[i], true
				}
			}
		}
		return "", false
	}
}

// FromPath resolves through the system search path.
func FromPath(name string) Resolver {
	return func(_ context.Context) (string, bool) {
		exe, err := dexec.LookPath(name)
		return exe, err == nil
	}
}

// NotFoundError reports that a required external tool could not be located
// anywhere.
type NotFoundError struct {
	Tool string
	Hint string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("required tool %q was not found", e.Tool)
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

// Locate runs the resolvers in order and returns the first hit.
func Locate(ctx context.Context, tool, hint string, resolvers ...Resolver) (string, error) {
	for _, resolve := range resolvers {
		if exe, ok := resolve(ctx); ok {
			return exe, nil
		}
	}
	return "", &NotFoundError{Tool: tool, Hint: hint}
}
