// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command framework for the okid binary: a
// tree of [Command] values with per-command pflag sets, categorized
// errors that map to exit codes, a structured logger, and terminal-aware
// output helpers.
//
// Commands receive a context, their positional arguments, and a logger
// scoped to the command:
//
//	&cli.Command{
//	    Name:    "hash",
//	    Summary: "Hash a file",
//	    Flags:   func() *pflag.FlagSet { ... },
//	    Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
//	        ...
//	    },
//	}
//
// Help output, unknown-command suggestions, and flag typo suggestions
// are generated from the tree.
package cli
