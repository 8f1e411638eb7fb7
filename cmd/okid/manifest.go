// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/okid/cmd/okid/cli"
	"github.com/bureau-foundation/okid/lib/codec"
	"github.com/bureau-foundation/okid/lib/manifest"
)

func manifestCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:    "manifest",
		Summary: "Inspect chunk manifests",
		Description: `Work with manifests written by "okid chunk --manifest".

A manifest is a short header (magic, compression, body length)
followed by a deterministic CBOR body listing every chunk.`,
		Subcommands: []*cli.Command{
			manifestInspectCommand(env),
		},
	}
}

func manifestInspectCommand(env *environment) *cli.Command {
	var jsonOutput, diagnose bool

	return &cli.Command{
		Name:    "inspect",
		Summary: "Summarize a manifest",
		Description: `Print a manifest's source, size, chunking parameters, chunk count,
compression, and root. --json prints the full listing; --diagnose
prints the raw CBOR body in diagnostic notation without validating it,
which is useful for manifests that fail to decode.`,
		Usage: "okid manifest inspect [flags] MANIFEST",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			flagSet.BoolVar(&jsonOutput, "json", false, "print the full listing as JSON")
			flagSet.BoolVar(&diagnose, "diagnose", false, "print the CBOR body in diagnostic notation")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Show the CBOR structure of a manifest",
				Command:     "okid manifest inspect --diagnose disk.okm",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("inspect takes exactly one MANIFEST argument, got %d", len(args))
			}
			if jsonOutput && diagnose {
				return cli.Validation("--json and --diagnose are mutually exclusive")
			}
			path := args[0]

			data, err := os.ReadFile(path)
			if err != nil {
				return fileError(err, "reading manifest")
			}
			body, compression, err := manifest.ReadBody(bytes.NewReader(data))
			if err != nil {
				return cli.Validation("%s: %w", path, err)
			}
			logger.Debug("read manifest body", "path", path, "compression", compression.String(), "body_bytes", len(body))

			if diagnose {
				notation, err := codec.Diagnose(body)
				if err != nil {
					return cli.Validation("%s: %w", path, err)
				}
				env.output.Println(notation)
				return nil
			}

			listing, err := manifest.Decode(bytes.NewReader(data))
			if err != nil {
				if errors.Is(err, manifest.ErrCorrupt) {
					return cli.Validation("%s: %w", path, err)
				}
				return cli.Internal("%s: %w", path, err)
			}
			if jsonOutput {
				return env.output.JSON(listing)
			}

			output := env.output
			output.Field("manifest", output.Path(path))
			output.Field("source", output.Path(listing.Source))
			output.Field("size", strconv.FormatUint(listing.Size, 10))
			output.Field("chunks", strconv.Itoa(len(listing.Chunks)))
			output.Field("chunk size", strconv.Itoa(listing.Config.ChunkSize))
			output.Field("min size", strconv.Itoa(listing.Config.MinSize))
			output.Field("max size", strconv.Itoa(listing.Config.MaxSize))
			output.Field("content", contentKindName(listing))
			output.Field("compression", compression.String())
			output.Field("root", listing.Root.String())
			return nil
		},
	}
}

// contentKindName reports the content hash kind of a listing, which
// is recorded as zero when the default was used.
func contentKindName(listing *manifest.Manifest) string {
	if len(listing.Chunks) > 0 {
		return listing.Chunks[0].ContentHash.HashType()
	}
	if listing.Config.ContentKind == 0 {
		return "blake3"
	}
	return listing.Config.ContentKind.String()
}
