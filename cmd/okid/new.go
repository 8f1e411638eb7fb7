// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/okid/cmd/okid/cli"
	"github.com/bureau-foundation/okid/lib/config"
	"github.com/bureau-foundation/okid/lib/okid"
)

func newCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:    "new",
		Summary: "Generate a UUID or ULID OkId",
		Description: `Generate fresh identity OkIds. UUIDs are random (version 4). ULIDs
carry their creation time in the first 48 bits and sort by it.`,
		Subcommands: []*cli.Command{
			generateCommand(env, "uuid", "Generate random UUID OkIds", func(*environment) (okid.OkId, error) {
				return okid.NewUUID(), nil
			}),
			generateCommand(env, "ulid", "Generate time-ordered ULID OkIds", func(env *environment) (okid.OkId, error) {
				return okid.NewULIDAt(env.clock)
			}),
		},
		Examples: []cli.Example{
			{
				Description: "A UUID in canonical form",
				Command:     "okid new uuid",
			},
			{
				Description: "Ten ULIDs as file names",
				Command:     "okid new ulid --count 10 --form path",
			},
		},
	}
}

func generateCommand(env *environment, name, summary string, generate func(*environment) (okid.OkId, error)) *cli.Command {
	var (
		form  string
		count int
	)

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   "okid new " + name + " [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
			flagSet.StringVarP(&form, "form", "f", env.config.Output.Form, "output form: canonical, path, display, bubblebabble or json")
			flagSet.IntVarP(&count, "count", "n", 1, "number of identifiers to generate")
			return flagSet
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("%s takes no positional arguments, got %q", name, args[0])
			}
			if count < 1 {
				return cli.Validation("--count must be at least 1, got %d", count)
			}
			if err := checkForm(form); err != nil {
				return err
			}

			ids := make([]okid.OkId, count)
			for index := range ids {
				id, err := generate(env)
				if errors.Is(err, okid.ErrTimeOutOfRange) {
					return cli.Validation("cannot generate %s: %w", name, err)
				}
				if err != nil {
					return cli.Internal("generating %s: %w", name, err)
				}
				ids[index] = id
			}
			logger.Debug("generated identifiers", "kind", name, "count", count)

			if form == config.FormJSON {
				return env.output.JSON(ids)
			}
			for _, id := range ids {
				text, err := formatID(id, form)
				if err != nil {
					return err
				}
				env.output.Println(text)
			}
			return nil
		},
	}
}
