// Copyright (C) 2024-2025  Recibos PT
//
// SPDX-License-Identifier: Apache-2.0

// Package release defines the immutable context shared by all pipeline
// stages.
//
// The context is built exactly once, at orchestrator start: the version file
// and bundle manifest are read from disk, the signing configuration is read
// from the environment, and from then on every stage receives the same
// value.  Stages never re-read the version file, which is how the version in
// the executable's version resource, the installer's AppVersion, and the
// artifact filenames are guaranteed to agree.
package release

import (
	"fmt"
	"path/filepath"

	goversion "github.com/hashicorp/go-version"
	"github.com/kelseyhightower/envconfig"

	"github.com/recibospt/relbuild/pkg/manifest"
	"github.com/recibospt/relbuild/pkg/relversion"
	"github.com/recibospt/relbuild/pkg/sign"
)

// Well-known file names inside the repository checkout.
const (
	VersionFile      = ".version"
	ManifestFile     = "bundle.yml"
	InstallerScript  = "installer.iss"
	RequirementsFile = "requirements.txt"
	NoteFile         = "LEIA-ME.txt"
)

// DocFiles is the fixed documentation set shipped inside the release
// archive.
var DocFiles = []string{"README.md", "INSTALACAO.md", "CHANGELOG.md"}

// Context carries everything a stage needs.  Treat it as immutable.
type Context struct {
	// Root is the repository checkout the pipeline runs against.
	Root string

	Version *goversion.Version
	App     *manifest.Manifest
	Signing sign.Config
}

// Load builds the context for a checkout.  A missing or malformed version
// file or manifest is a fatal environment error.
func Load(root string) (*Context, error) {
	ver, err := relversion.ReadFile(filepath.Join(root, VersionFile))
	if err != nil {
		return nil, fmt.Errorf("release version: %w", err)
	}
	app, err := manifest.Load(filepath.Join(root, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("bundle manifest: %w", err)
	}
	var signing sign.Config
	if err := envconfig.Process("relbuild", &signing); err != nil {
		return nil, fmt.Errorf("signing config: %w", err)
	}
	return &Context{
		Root:    root,
		Version: ver,
		App:     app,
		Signing: signing,
	}, nil
}

func (c *Context) path(elem ...string) string {
	return filepath.Join(append([]string{c.Root}, elem...)...)
}

// RequirementsPath is the dependency manifest for the deps stage.
func (c *Context) RequirementsPath() string { return c.path(RequirementsFile) }

// ScriptPath is the declarative installer script.
func (c *Context) ScriptPath() string { return c.path(InstallerScript) }

// DistDir is the bundler output root, cleared before every build.
func (c *Context) DistDir() string { return c.path("dist") }

// AppDir is the bundled application tree under DistDir.
func (c *Context) AppDir() string { return filepath.Join(c.DistDir(), c.App.Name) }

// ExePath is the bundled executable the build stage must produce.
func (c *Context) ExePath() string { return filepath.Join(c.AppDir(), c.App.Name+".exe") }

// ReleasesDir holds the installer and the final archive.
func (c *Context) ReleasesDir() string { return c.path("releases") }

// InstallerPath is the versioned single-file installer.
func (c *Context) InstallerPath() string {
	return filepath.Join(c.ReleasesDir(),
		fmt.Sprintf("%s-Setup-%s.exe", c.App.Name, c.Version))
}

// StagingDir is rebuilt from scratch by the packager; its contents become
// the release archive.
func (c *Context) StagingDir() string { return filepath.Join(c.ReleasesDir(), "staging") }

// ArchivePath is the compressed release archive.
func (c *Context) ArchivePath() string {
	return filepath.Join(c.ReleasesDir(),
		fmt.Sprintf("%s-%s-release.zip", c.App.Name, c.Version))
}

// DocPaths resolves the fixed documentation set against the checkout root.
func (c *Context) DocPaths() []string {
	paths := make([]string, len(DocFiles))
	for i, doc := range DocFiles {
		paths[i] = c.path(doc)
	}
	return paths
}
