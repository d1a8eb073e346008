// Copyright (C) 2024-2025  Recibos PT
//
// SPDX-License-Identifier: Apache-2.0

// Package relversion deals with the persisted release version file.
//
// The file holds a single line with a bare semantic-version triple (for
// example "1.0.2").  It is the one source of truth for the version embedded
// in the executable's version resource, the installer's AppVersion, and every
// artifact filename; the build stages read it through an already-parsed
// release context and never mutate it.
package relversion

import (
	"fmt"
	"os"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// Parse validates a bare "major.minor.patch" string.
//
// It is stricter than go-version's parser: prerelease tags, build metadata,
// and shortened forms like "1.0" are rejected, because the installer compiler
// and the Windows version resource both want exactly three numeric fields.
func Parse(s string) (*goversion.Version, error) {
	v, err := goversion.NewVersion(s)
	if err != nil {
		return nil, err
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return nil, fmt.Errorf("version %q: prerelease/metadata suffixes are not allowed in a release version", s)
	}
	if len(strings.Split(s, ".")) != 3 || s != v.String() {
		return nil, fmt.Errorf("version %q: expected exactly major.minor.patch", s)
	}
	return v, nil
}

// ReadFile reads and parses the version file.
func ReadFile(filename string) (*goversion.Version, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	v, err := Parse(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return v, nil
}

// WriteFile persists a version as the sole contents of the version file.
func WriteFile(filename string, v *goversion.Version) error {
	return os.WriteFile(filename, []byte(v.String()+"\n"), 0o644)
}

// Part selects which field of the triple Bump increments.
type Part int

const (
	Patch Part = iota
	Minor
	Major
)

// Bump returns the next version with the given part incremented and all
// lesser parts reset to zero.
func Bump(v *goversion.Version, part Part) (*goversion.Version, error) {
	seg := v.Segments()
	switch part {
	case Major:
		seg = []int{seg[0] + 1, 0, 0}
	case Minor:
		seg = []int{seg[0], seg[1] + 1, 0}
	default:
		seg = []int{seg[0], seg[1], seg[2] + 1}
	}
	return Parse(fmt.Sprintf("%d.%d.%d", seg[0], seg[1], seg[2]))
}
