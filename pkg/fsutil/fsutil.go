// Copyright (C) 2024-2025  Recibos PT
//
// SPDX-License-Identifier: Apache-2.0

// Package fsutil has small filesystem helpers shared by the pipeline stages.
package fsutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileExists reports whether name exists and is a regular file.
func FileExists(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && fi.Mode().IsRegular()
}

// DirExists reports whether name exists and is a directory.
func DirExists(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && fi.IsDir()
}

// CleanDir removes dirname (if present) and recreates it empty.  The stages
// use this before writing an artifact tree, so that a postcondition check
// can't be fooled by output left over from a previous run.
func CleanDir(dirname string) error {
	if err := os.RemoveAll(dirname); err != nil {
		return err
	}
	return os.MkdirAll(dirname, 0o777)
}

// CopyFile copies a regular file, preserving its mode bits.
func CopyFile(dst, src string) (err error) {
	maybeSetErr := func(_err error) {
		if _err != nil && err == nil {
			err = _err
		}
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		maybeSetErr(srcFile.Close())
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	if !srcInfo.Mode().IsRegular() {
		return &fs.PathError{
			Op:   "copy",
			Path: src,
			Err:  fs.ErrInvalid,
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o777); err != nil {
		return err
	}
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		maybeSetErr(dstFile.Close())
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return nil
}
