// Copyright (C) 2024-2025  Recibos PT
//
// SPDX-License-Identifier: Apache-2.0

// Package manifest deals with the declarative bundle manifest ("bundle.yml")
// that describes what the executable bundler should package.
package manifest

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// DataFile is one (source, destination) pair of extra files to ship inside
// the bundled application directory.
type DataFile struct {
	Src string
	Dst string
}

// Manifest is the bundler input.  It is owned by the executable-build stage
// and read-only to every other stage.
type Manifest struct {
	// Name is the target binary name (without ".exe") and the directory
	// name the bundler emits under dist/.
	Name string

	// Entrypoint is the path of the application's main script.
	Entrypoint string

	// Windowed selects a GUI subsystem binary (no console window).
	Windowed bool

	Icon            string
	VersionResource string

	HiddenImports []string
	Data          []DataFile
}

// Load reads and validates a manifest file.  Unknown keys are an error, so a
// typoed field fails the build instead of being silently dropped.
func Load(filename string) (*Manifest, error) {
	yamlBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(yamlBytes, &m, yaml.DisallowUnknownFields); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("%s: missing required field %q", filename, "Name")
	}
	if m.Entrypoint == "" {
		return nil, fmt.Errorf("%s: missing required field %q", filename, "Entrypoint")
	}
	return &m, nil
}

// BundlerArgs translates the manifest into bundler command-line arguments.
// The manifest is the only source of these values; nothing else on the
// command line names the entrypoint, imports, or data files.
//
// The "src;dst" separator in --add-data is the Windows form; the bundled
// application is a Windows target even when relbuild itself runs elsewhere.
func (m *Manifest) BundlerArgs() []string {
	args := []string{"--name", m.Name}
	if m.Windowed {
		args = append(args, "--windowed")
	} else {
		args = append(args, "--console")
	}
	if m.Icon != "" {
		args = append(args, "--icon", m.Icon)
	}
	if m.VersionResource != "" {
		args = append(args, "--version-file", m.VersionResource)
	}
	for _, imp := range m.HiddenImports {
		args = append(args, "--hidden-import", imp)
	}
	for _, d := range m.Data {
		args = append(args, "--add-data", d.Src+";"+d.Dst)
	}
	return append(args, m.Entrypoint)
}
