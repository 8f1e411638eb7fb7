// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/okid/cmd/okid/cli"
	"github.com/bureau-foundation/okid/lib/chunker"
	"github.com/bureau-foundation/okid/lib/manifest"
	"github.com/bureau-foundation/okid/lib/okid"
)

// autoManifest is the --manifest value meaning "name the manifest after
// its root in the configured directory".
const autoManifest = "auto"

func chunkCommand(env *environment) *cli.Command {
	var (
		chunkSize, minSize, maxSize int
		contentKind                 string
		jsonOutput                  bool
		manifestPath                string
		compressionName             string
	)

	return &cli.Command{
		Name:    "chunk",
		Summary: "Split a file into content-defined chunks",
		Description: `Split FILE (or stdin for "-") into content-defined chunks and print
one line per chunk: offset, length, fingerprint, and content hash.

Boundaries depend only on nearby content, so an edit in the middle of a
file changes the chunks around it and leaves the rest identical. The
listing's root OkId summarizes every content hash in order.

With --manifest, the listing is also written as a compressed manifest
that "okid verify" can check a file against later. A bare --manifest
names the file after the root in the configured manifest directory;
an explicit path must be attached with "=": --manifest=out.okm.`,
		Usage: "okid chunk [flags] FILE",
		Flags: func() *pflag.FlagSet {
			defaults := env.config.Chunker
			kind := defaults.ContentKind
			if kind == 0 {
				kind = okid.KindBLAKE3
			}

			flagSet := pflag.NewFlagSet("chunk", pflag.ContinueOnError)
			flagSet.IntVar(&chunkSize, "chunk-size", defaults.ChunkSize, "target average chunk size in bytes (power of two)")
			flagSet.IntVar(&minSize, "min-size", defaults.MinSize, "smallest chunk the hash may cut")
			flagSet.IntVar(&maxSize, "max-size", defaults.MaxSize, "largest chunk; a boundary is forced here")
			flagSet.StringVar(&contentKind, "content-kind", kind.String(), "content hash kind: sha256 or blake3")
			flagSet.BoolVar(&jsonOutput, "json", false, "print the manifest as JSON")
			flagSet.StringVar(&manifestPath, "manifest", "", "write a manifest to this path (--manifest=PATH)")
			flagSet.Lookup("manifest").NoOptDefVal = autoManifest
			flagSet.StringVar(&compressionName, "compress", env.config.Manifest.Compression.String(), "manifest compression: none, lz4 or zstd")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "List the chunks of a file",
				Command:     "okid chunk disk.img",
			},
			{
				Description: "Smaller chunks, SHA-256 content hashes, manifest next to the file",
				Command:     "okid chunk --chunk-size 16384 --min-size 4096 --max-size 65536 --content-kind sha256 --manifest=disk.okm disk.img",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("chunk takes exactly one FILE argument, got %d", len(args))
			}
			source := args[0]

			kind, err := okid.ParseKind(contentKind)
			if err != nil {
				return cli.Validation("--content-kind: %w", err)
			}
			chunkConfig := chunker.Config{
				ChunkSize:   chunkSize,
				MinSize:     minSize,
				MaxSize:     maxSize,
				ContentKind: kind,
			}
			if err := chunkConfig.Validate(); err != nil {
				return cli.Validation("%w", err)
			}
			compression, err := manifest.ParseCompression(compressionName)
			if err != nil {
				return cli.Validation("--compress: %w", err)
			}

			logger = logger.With("source", source, "chunk_size", chunkSize)
			listing, err := env.buildManifest(ctx, source, chunkConfig)
			if err != nil {
				return err
			}
			logger.Info("chunked source",
				"size", listing.Size,
				"chunks", len(listing.Chunks),
				"root", listing.Root.String(),
			)

			written := ""
			if manifestPath != "" {
				path := manifestPath
				if path == autoManifest {
					path = env.config.ManifestPath(listing.Root.PathSafe())
					if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
						return cli.Internal("creating manifest directory: %w", err)
					}
				}
				if err := listing.WriteFile(path, compression); err != nil {
					return fileError(err, "writing manifest %s", path)
				}
				logger.Debug("wrote manifest", "path", path, "compression", compression.String())
				written = path
			}

			if jsonOutput {
				return env.output.JSON(listing)
			}

			output := env.output
			for _, chunk := range listing.Chunks {
				output.Printf("%12d %8d %s %s\n", chunk.Offset, chunk.Length, chunk.Fingerprint, chunk.ContentHash)
			}
			output.Field("source", output.Path(source))
			output.Field("size", strconv.FormatUint(listing.Size, 10))
			output.Field("chunks", strconv.Itoa(len(listing.Chunks)))
			output.Field("root", listing.Root.String())
			if written != "" {
				output.Field("manifest", output.Path(written))
			}
			return nil
		},
	}
}

// buildManifest chunks the named source, or stdin for "-".
func (env *environment) buildManifest(ctx context.Context, source string, chunkConfig chunker.Config) (*manifest.Manifest, error) {
	var (
		c   *chunker.Chunker
		err error
	)
	if source == "-" {
		c, err = chunker.New(env.stdin, chunkConfig)
	} else {
		c, err = chunker.Open(source, chunkConfig)
	}
	if err != nil {
		return nil, fileError(err, "opening %s", source)
	}
	defer c.Close()

	listing, err := manifest.Build(ctx, c, source)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, cli.Internal("chunking %s: %w", source, err)
	}
	return listing, nil
}
