// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/okid/cmd/okid/cli"
	"github.com/bureau-foundation/okid/lib/okid"
)

func parseCommand(env *environment) *cli.Command {
	var jsonOutput bool

	return &cli.Command{
		Name:    "parse",
		Summary: "Decode an OkId in any form and print every form",
		Description: `Decode STRING as a canonical ("kind:hex"), path-safe ("kind.hex"),
display-safe (emoji) or Bubble Babble OkId and print its kind, digest,
and every string form. Display-safe input may be surrounded by other
text. A URL ("scheme://...") yields the first path segment that holds
an OkId.

UUIDs are also shown in their usual hyphenated form, ULIDs in their
Crockford base32 form with the embedded timestamp. Fingerprints show
their 64-bit rolling hash value.`,
		Usage: "okid parse [flags] STRING",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("parse", pflag.ContinueOnError)
			flagSet.BoolVar(&jsonOutput, "json", false, "print the interchange record as JSON")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Inspect a canonical identifier",
				Command:     "okid parse sha256:b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
			},
			{
				Description: "Pull the identifier out of a URL",
				Command:     "okid parse https://example.com/blobs/sha256.b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9/raw",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("parse takes exactly one STRING argument, got %d", len(args))
			}

			id, err := parseInput(args[0])
			if err != nil {
				return cli.Validation("%w", err)
			}
			logger.Debug("parsed identifier", "kind", id.Kind().String())

			if jsonOutput {
				return env.output.JSON(id)
			}

			output := env.output
			output.Field("kind", id.HashType())
			output.Field("digest", id.Digest())
			output.Field("canonical", id.String())
			output.Field("path-safe", id.PathSafe())
			output.Field("display", id.DisplaySafe())
			output.Field("bubblebabble", id.Bubblebabble())

			switch id.Kind() {
			case okid.KindUUID:
				value, err := id.UUID()
				if err != nil {
					return cli.Internal("%w", err)
				}
				output.Field("uuid", value.String())
				output.Field("version", strconv.Itoa(int(value.Version())))
			case okid.KindULID:
				value, err := id.ULID()
				if err != nil {
					return cli.Internal("%w", err)
				}
				created, err := id.Time()
				if err != nil {
					return cli.Internal("%w", err)
				}
				output.Field("ulid", value.String())
				output.Field("time", created.UTC().Format(time.RFC3339Nano))
			case okid.KindFingerprint:
				value, err := id.FingerprintValue()
				if err != nil {
					return cli.Internal("%w", err)
				}
				output.Field("value", strconv.FormatUint(value, 10))
			}
			return nil
		},
	}
}

// parseInput decodes a string form, or extracts the identifier from a
// URL path when input has a scheme.
func parseInput(input string) (okid.OkId, error) {
	if !strings.Contains(input, "://") {
		return okid.ParseAny(input)
	}
	u, err := url.Parse(input)
	if err != nil {
		return okid.OkId{}, err
	}
	return okid.FromURL(u)
}
