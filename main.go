// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
tscat inspects, converts and queries Qt Linguist TS translation catalogs.

Usage:

	tscat [-config file] <command> [arguments]

The commands are:

	check    parse catalogs and report problems and statistics
	export   re-serialize a catalog as TS, zstd-compressed TS or gettext PO
	merge    merge catalogs into a base catalog (see -policy for overlapping messages)
	prune    remove obsolete messages from a catalog
	tr       translate a source text using the configured catalog directories
	version  print version information
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/tscat/tscat/config"
)

var (
	errNoCommand      = errors.New("no command given")
	errUnknownCommand = errors.New("unknown command")
)

// main is the entry point of the application.
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}

		log.Fatal().Err(err).Msg("tscat failed")
	}
}

// run parses the global flags, loads the configuration and dispatches to a
// command.
func run(args []string, stdout, stderr io.Writer) error {
	config.SetDefaultLogger()

	fs := flag.NewFlagSet("tscat", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := config.AddFlags(fs)

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tscat [-config file] <command> [arguments]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Commands:")

		for _, name := range slices.Sorted(commandNames()) {
			fmt.Fprintf(stderr, "  %-8s %s\n", name, commands[name].summary)
		}

		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()

		return errNoCommand
	}

	name := fs.Arg(0)

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w %q, want one of %s", errUnknownCommand, name, strings.Join(slices.Sorted(commandNames()), ", "))
	}

	cfg := &config.Config{}
	if err := cfg.LoadConfig(*configPath); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return cmd.run(&commandEnv{cfg: cfg, stdout: stdout, stderr: stderr}, fs.Args()[1:])
}
