// Copyright (C) 2024-2025  Recibos PT
//
// SPDX-License-Identifier: Apache-2.0

// Package sign wraps Authenticode signing of release artifacts.
//
// Signing is the one best-effort stage of the pipeline.  An absent
// certificate is a valid configuration (the stage is skipped), a missing
// signtool is a skip with a warning, and a signing failure is surfaced but
// never aborts the release: an unsigned installer is still distributable,
// it just carries a Windows trust warning.
package sign

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"

	"github.com/recibospt/relbuild/pkg/pipeline"
	"github.com/recibospt/relbuild/pkg/toolpath"
)

// Config is read from the environment (prefix RELBUILD_) at pipeline start.
// All fields being empty means "don't sign", which is not an error.
type Config struct {
	// CertFile is the path of the .pfx code-signing certificate.
	CertFile string `envconfig:"SIGN_CERT"`
	// CertPassword unlocks CertFile.
	CertPassword string `envconfig:"SIGN_CERT_PASSWORD"`
	// TimestampURL is the RFC 3161 timestamp authority; countersigning
	// keeps signatures valid after the certificate itself expires.
	TimestampURL string `envconfig:"SIGN_TIMESTAMP_URL" default:"http://timestamp.digicert.com"`
}

// Configured reports whether a certificate has been supplied.
func (c Config) Configured() bool {
	return c.CertFile != ""
}

// Status is the coarse result of a signing attempt.
type Status int

const (
	// Skipped means no signing was attempted (not configured, or tool
	// missing); the artifact is untouched.
	Skipped Status = iota
	// Signed means the artifact now carries a signature.
	Signed
	// Failed means signing was attempted and the tool failed; non-fatal.
	Failed
)

// Outcome is the tagged result of signing one artifact.  The orchestrator's
// tolerance of signing failures branches on this explicitly, rather than on
// a quietly ignored error code.
type Outcome struct {
	Status Status
	// Reason says why a Skipped outcome was skipped.
	Reason string
	// Cause is the tool failure behind a Failed outcome.
	Cause error
}

// Err converts the outcome into what the pipeline should see: nil for
// Skipped and Signed, the underlying failure for Failed.  Paired with the
// stage's BestEffort flag this makes the failure visible without making it
// fatal.
func (o Outcome) Err() error {
	if o.Status != Failed {
		return nil
	}
	return fmt.Errorf("signing failed: %w", o.Cause)
}

// Signer signs artifacts with a fixed configuration.
type Signer struct {
	cfg    Config
	run    pipeline.Runner
	locate func(ctx context.Context) (string, error)
}

func New(cfg Config, run pipeline.Runner) *Signer {
	return &Signer{
		cfg: cfg,
		run: run,
		locate: func(ctx context.Context) (string, error) {
			return toolpath.Locate(ctx, "signtool",
				"install the Windows SDK (signtool ships with it), or set RELBUILD_SIGNTOOL",
				toolpath.FromEnv("RELBUILD_SIGNTOOL"),
				toolpath.FromGlob(
					`C:\Program Files (x86)\Windows Kits\10\bin\10.0.*\x64\signtool.exe`,
					`C:\Program Files (x86)\Windows Kits\10\bin\10.0.*\x86\signtool.exe`,
				),
				toolpath.FromFiles(
					`C:\Program Files (x86)\Windows Kits\10\bin\x64\signtool.exe`,
					`C:\Program Files (x86)\Windows Kits\10\bin\x86\signtool.exe`,
				),
				toolpath.FromPath("signtool"),
			)
		},
	}
}

// Artifact signs a single file and reports the outcome.  It never returns a
// fatal condition; the caller decides how loudly to log it.
func (s *Signer) Artifact(ctx context.Context, path string) Outcome {
	if !s.cfg.Configured() {
		dlog.Infof(ctx, "signing not configured (RELBUILD_SIGN_CERT unset); leaving %s unsigned", path)
		return Outcome{Status: Skipped, Reason: "no signing certificate configured"}
	}

	tool, err := s.locate(ctx)
	if err != nil {
		dlog.Warnf(ctx, "certificate configured but %v; leaving %s unsigned", err, path)
		return Outcome{Status: Skipped, Reason: err.Error()}
	}

	args := []string{
		"sign",
		"/f", s.cfg.CertFile,
	}
	if s.cfg.CertPassword != "" {
		args = append(args, "/p", s.cfg.CertPassword)
	}
	args = append(args,
		"/fd", "sha256",
		"/tr", s.cfg.TimestampURL,
		"/td", "sha256",
		path,
	)

	if err := s.run(ctx, tool, args...); err != nil {
		return Outcome{Status: Failed, Cause: err}
	}
	dlog.Infof(ctx, "signed %s", path)
	return Outcome{Status: Signed}
}
