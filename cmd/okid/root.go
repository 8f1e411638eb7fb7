// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/bureau-foundation/okid/cmd/okid/cli"
	"github.com/bureau-foundation/okid/lib/clock"
	"github.com/bureau-foundation/okid/lib/config"
	"github.com/bureau-foundation/okid/lib/okid"
	"github.com/bureau-foundation/okid/lib/version"
)

// environment carries what every command needs: its streams, the
// loaded configuration, and the time source for generated ids.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	config *config.Config
	output *cli.Output
	clock  clock.Clock
}

// rootCommand builds the okid command tree.
func rootCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name: "okid",
		Description: `okid: typed content and identity identifiers.

An OkId pairs a kind (sha256, blake3, fingerprint, uuid, ulid) with a
fixed-length digest. Every OkId has three string forms: canonical
("blake3:<hex>"), path-safe ("blake3.<hex>"), and display-safe (an
emoji followed by invisible variation selectors).

Global flags (before the command): --config PATH, --verbose, --version.`,
		Subcommands: []*cli.Command{
			hashCommand(env),
			newCommand(env),
			parseCommand(env),
			chunkCommand(env),
			verifyCommand(env),
			manifestCommand(env),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					if len(args) > 0 {
						return cli.Validation("version takes no arguments, got %q", args[0])
					}
					fmt.Fprintf(env.stdout, "okid %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Hash a file with BLAKE3",
				Command:     "okid hash README.md",
			},
			{
				Description: "Decode an identifier pasted from chat",
				Command:     "okid parse '🔑...'",
			},
			{
				Description: "Chunk a file and write its manifest",
				Command:     "okid chunk --manifest image.raw",
			},
			{
				Description: "Check a file against its manifest",
				Command:     "okid verify image.okm image.raw",
			},
		},
	}
}

// formatID renders id in one of the configured output forms.
func formatID(id okid.OkId, form string) (string, error) {
	switch form {
	case config.FormCanonical:
		return id.String(), nil
	case config.FormPath:
		return id.PathSafe(), nil
	case config.FormDisplay:
		return id.DisplaySafe(), nil
	case config.FormBubblebabble:
		return id.Bubblebabble(), nil
	case config.FormJSON:
		data, err := json.Marshal(id)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", cli.Validation("unknown form %q (want one of %v)", form, config.Forms)
	}
}

// checkForm rejects an output form name before any work is done.
func checkForm(form string) error {
	if !slices.Contains(config.Forms, form) {
		return cli.Validation("unknown form %q (want one of %v)", form, config.Forms)
	}
	return nil
}

// openInput opens a named file, or returns stdin for "-". The returned
// close function is always safe to call.
func (env *environment) openInput(name string) (io.Reader, func() error, error) {
	if name == "-" {
		return env.stdin, func() error { return nil }, nil
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, nil, fileError(err, "opening %s", name)
	}
	return file, file.Close, nil
}

// fileError categorizes a failure to reach a named file: missing files
// are not-found errors, anything else is internal.
func fileError(err error, format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	if errors.Is(err, fs.ErrNotExist) {
		return cli.NotFound("%s: %w", message, err)
	}
	return cli.Internal("%s: %w", message, err)
}
