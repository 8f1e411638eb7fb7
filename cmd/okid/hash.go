// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/okid/cmd/okid/cli"
	"github.com/bureau-foundation/okid/lib/config"
	"github.com/bureau-foundation/okid/lib/okid"
)

// hashEntry is one line of "okid hash --form json" output.
type hashEntry struct {
	Name string    `json:"name"`
	ID   okid.OkId `json:"id"`
}

func hashCommand(env *environment) *cli.Command {
	var kindName, form string

	return &cli.Command{
		Name:    "hash",
		Summary: "Compute the OkId of files or stdin",
		Description: `Hash each FILE (or stdin when FILE is "-" or omitted) and print
"ID  NAME" lines in the style of sha256sum.

Kinds are sha256, blake3, and fingerprint. Fingerprints are the 64-bit
rolling-hash state after the last byte: cheap, and not collision
resistant.`,
		Usage: "okid hash [flags] [FILE|-]...",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("hash", pflag.ContinueOnError)
			flagSet.StringVarP(&kindName, "kind", "k", okid.KindBLAKE3.String(), "hash kind: sha256, blake3 or fingerprint")
			flagSet.StringVarP(&form, "form", "f", env.config.Output.Form, "output form: canonical, path, display, bubblebabble or json")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "SHA-256 of a file",
				Command:     "okid hash --kind sha256 README.md",
			},
			{
				Description: "Path-safe BLAKE3 id of stdin",
				Command:     "tar c src | okid hash --form path",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			kind, err := okid.ParseKind(kindName)
			if err != nil || !kind.Derived() {
				return cli.Validation("--kind must be sha256, blake3 or fingerprint, got %q", kindName)
			}
			if err := checkForm(form); err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names = []string{"-"}
			}

			entries := make([]hashEntry, 0, len(names))
			for _, name := range names {
				if err := ctx.Err(); err != nil {
					return err
				}
				id, err := env.hashInput(kind, name)
				if err != nil {
					return err
				}
				logger.Debug("hashed input", "name", name, "id", id.String())
				entries = append(entries, hashEntry{Name: name, ID: id})
			}

			if form == config.FormJSON {
				return env.output.JSON(entries)
			}
			for _, entry := range entries {
				text, err := formatID(entry.ID, form)
				if err != nil {
					return err
				}
				env.output.Printf("%s  %s\n", text, entry.Name)
			}
			return nil
		},
	}
}

func (env *environment) hashInput(kind okid.Kind, name string) (okid.OkId, error) {
	reader, closeInput, err := env.openInput(name)
	if err != nil {
		return okid.OkId{}, err
	}
	defer closeInput()

	id, err := okid.HashReader(kind, reader)
	if err != nil {
		return okid.OkId{}, cli.Internal("%s: %w", name, err)
	}
	return id, nil
}
