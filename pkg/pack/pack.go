// Copyright (C) 2024-2025  Recibos PT
//
// SPDX-License-Identifier: Apache-2.0

// Package pack assembles the final release archive: the installer, the
// documentation set, and a quick-start note carrying the installer's SHA-256
// digest, zipped up from a staging directory that is rebuilt on every run.
package pack

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/datawire/dlib/dlog"

	"github.com/recibospt/relbuild/pkg/fsutil"
	"github.com/recibospt/relbuild/pkg/pipeline"
)

// Input names everything the packager consumes and produces.  All paths are
// absolute or relative to the orchestrator's working directory.
type Input struct {
	AppName   string
	Version   string
	Installer string
	Docs      []string

	StagingDir  string
	NoteName    string
	ArchivePath string
}

// Release stages and compresses the release artifact set.  The installer
// being absent is fatal, and so is a compression failure: unlike a missing
// signature, the archive is a required release artifact.
func Release(ctx context.Context, in Input) error {
	if !fsutil.FileExists(in.Installer) {
		return &pipeline.MissingArtifactError{Path: in.Installer}
	}

	if err := fsutil.CleanDir(in.StagingDir); err != nil {
		return err
	}

	for _, src := range append([]string{in.Installer}, in.Docs...) {
		dst := filepath.Join(in.StagingDir, filepath.Base(src))
		if err := fsutil.CopyFile(dst, src); err != nil {
			return err
		}
	}

	digest, err := FileDigest(in.Installer)
	if err != nil {
		return err
	}
	dlog.Infof(ctx, "installer digest sha256:%s", digest)

	note := filepath.Join(in.StagingDir, in.NoteName)
	if err := writeNote(note, in, digest); err != nil {
		return err
	}

	if err := zipDir(in.ArchivePath, in.StagingDir); err != nil {
		return fmt.Errorf("compress release archive: %w", err)
	}
	dlog.Infof(ctx, "wrote %s", in.ArchivePath)
	return nil
}

// FileDigest returns the lowercase hex SHA-256 of a file's contents.
func FileDigest(filename string) (_ string, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer func() {
		if _err := file.Close(); _err != nil && err == nil {
			err = _err
		}
	}()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// writeNote emits the plain-text quick-start note.  The digest line is last
// and machine-checkable; release consumers grep for "SHA256: ".
func writeNote(filename string, in Input, digest string) error {
	body := fmt.Sprintf(""+
		"%s %s\n"+
		"\n"+
		"Para instalar, execute %s e siga o assistente.\n"+
		"Consulte INSTALACAO.md para instrucoes detalhadas.\n"+
		"\n"+
		"Verifique a integridade do instalador antes de o executar:\n"+
		"SHA256: %s\n",
		in.AppName, in.Version, filepath.Base(in.Installer), digest)
	return os.WriteFile(filename, []byte(body), 0o644)
}

var (
	clampOnce sync.Once
	clamp     time.Time
)

// clampTime is the timestamp recorded on every archive entry.  Honoring
// SOURCE_DATE_EPOCH keeps two runs over identical inputs byte-identical.
func clampTime() time.Time {
	clampOnce.Do(func() {
		if secs, err := strconv.ParseInt(os.Getenv("SOURCE_DATE_EPOCH"), 10, 64); err == nil {
			clamp = time.Unix(secs, 0).UTC()
		} else {
			clamp = time.Now()
		}
	})
	return clamp
}

// zipDir compresses dirname into a zip archive.  filepath.WalkDir visits
// entries in lexical order, so the entry order is deterministic.
func zipDir(archivePath, dirname string) (err error) {
	maybeSetErr := func(_err error) {
		if _err != nil && err == nil {
			err = _err
		}
	}

	archive, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		maybeSetErr(archive.Close())
	}()

	zipWriter := zip.NewWriter(archive)
	defer func() {
		maybeSetErr(zipWriter.Close())
	}()

	return filepath.WalkDir(dirname, func(filename string, entry fs.DirEntry, e error) error {
		if e != nil {
			return e
		}
		if entry.IsDir() {
			return nil
		}
		name, err := filepath.Rel(dirname, filename)
		if err != nil {
			return err
		}

		header := &zip.FileHeader{
			Name:     filepath.ToSlash(name),
			Method:   zip.Deflate,
			Modified: clampTime(),
		}
		dst, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}

		src, err := os.Open(filename)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(dst, src)
		return err
	})
}
