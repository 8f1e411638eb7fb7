// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command okid creates, parses, and converts OkIds, and splits files
// into content-defined chunks.
//
// Usage:
//
//	okid [--config PATH] [--verbose] <command> [flags] [args]
//
// Commands:
//
//	hash      Compute the OkId of files or stdin
//	new       Generate a UUID or ULID OkId
//	parse     Decode an OkId in any form and print every form
//	chunk     Split a file into content-defined chunks
//	verify    Check a file against a chunk manifest
//	manifest  Inspect chunk manifests
//	version   Print version information
//
// Configuration is read from --config or the OKID_CONFIG environment
// variable; see lib/config. Exit codes: 0 success, 1 verification
// mismatch, 64 invalid usage, 66 missing input, 70 internal error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/okid/cmd/okid/cli"
	"github.com/bureau-foundation/okid/lib/clock"
	"github.com/bureau-foundation/okid/lib/config"
	"github.com/bureau-foundation/okid/lib/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()

	code, printMessage := cli.ExitCodeOf(err)
	if printMessage {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}

// run parses the global flags, loads the configuration, and executes
// the command tree. Global flags must precede the command name.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	globalFlags := pflag.NewFlagSet("okid", pflag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.SetOutput(io.Discard)
	configPath := globalFlags.String("config", "", "configuration file (default $"+config.EnvironmentVariable+")")
	verbose := globalFlags.BoolP("verbose", "v", false, "log debug detail to stderr")
	showVersion := globalFlags.Bool("version", false, "print the version and exit")

	if err := globalFlags.Parse(args); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			return cli.Validation("%s\n\nRun 'okid --help' for usage.", err)
		}
		args = []string{"--help"}
	} else {
		args = globalFlags.Args()
	}

	if *showVersion {
		fmt.Fprintf(stdout, "okid %s\n", version.Info())
		return nil
	}

	loaded, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	env := &environment{
		stdin:  stdin,
		stdout: stdout,
		config: loaded,
		output: cli.NewOutput(stdout, loaded.Output.Color),
		clock:  clock.Real(),
	}

	root := rootCommand(env)
	root.Help = stderr
	return root.Execute(ctx, args, newLogger(stderr, *verbose))
}

// loadConfig reads the file named by --config, falling back to
// OKID_CONFIG and then to the defaults.
func loadConfig(path string) (*config.Config, error) {
	var (
		loaded *config.Config
		err    error
	)
	if path != "" {
		loaded, err = config.LoadFile(path)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cli.NotFound("%w", err)
		}
		return nil, cli.Validation("%w", err)
	}
	return loaded, nil
}

// newLogger writes text records when stderr is a terminal and JSON
// records otherwise.
func newLogger(stderr io.Writer, verbose bool) *slog.Logger {
	if stderr == os.Stderr {
		return cli.NewCommandLogger(verbose)
	}
	return cli.NewLogger(stderr, false, verbose)
}
