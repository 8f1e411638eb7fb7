// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/bureau-foundation/okid/cmd/okid/cli"
	"github.com/bureau-foundation/okid/lib/manifest"
)

func verifyCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:    "verify",
		Summary: "Check a file against a chunk manifest",
		Description: `Re-hash every chunk listed in MANIFEST from the same byte range of
FILE. Exits 0 when every chunk matches and FILE has no extra bytes,
and 1 after reporting the first chunk that differs.`,
		Usage: "okid verify MANIFEST FILE",
		Examples: []cli.Example{
			{
				Description: "Verify a disk image",
				Command:     "okid verify disk.okm disk.img",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("verify takes MANIFEST and FILE, got %d arguments", len(args))
			}
			manifestPath, source := args[0], args[1]

			listing, err := readManifest(manifestPath)
			if err != nil {
				return err
			}
			logger = logger.With("manifest", manifestPath, "source", source)

			err = listing.VerifyFile(ctx, source)
			var mismatch *manifest.MismatchError
			switch {
			case err == nil:
				logger.Debug("source matches manifest", "chunks", len(listing.Chunks))
				env.output.Status(true, fmt.Sprintf("OK  %s (%d chunks, %d bytes)", source, len(listing.Chunks), listing.Size))
				return nil
			case errors.As(err, &mismatch):
				logger.Info("source differs from manifest", "chunk", mismatch.Index, "offset", mismatch.Offset)
				env.output.Status(false, fmt.Sprintf("MISMATCH  %s: %v", source, err))
				return &cli.ExitError{Code: 1}
			case errors.Is(err, context.Canceled):
				return err
			default:
				return fileError(err, "verifying %s", source)
			}
		},
	}
}

// readManifest decodes a manifest file, categorizing a missing file as
// not found and an undecodable one as invalid input.
func readManifest(path string) (*manifest.Manifest, error) {
	listing, err := manifest.ReadFile(path)
	switch {
	case err == nil:
		return listing, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, cli.NotFound("%w", err)
	case errors.Is(err, manifest.ErrCorrupt):
		return nil, cli.Validation("%s: %w", path, err)
	default:
		return nil, cli.Internal("%s: %w", path, err)
	}
}
