// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"maps"
	"os"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog/log"

	"codeberg.org/tscat/tscat/catalog"
	"codeberg.org/tscat/tscat/config"
	"codeberg.org/tscat/tscat/i18n"
	"codeberg.org/tscat/tscat/pofile"
	"codeberg.org/tscat/tscat/store"
	"codeberg.org/tscat/tscat/tsfile"
)

var (
	errMissingArguments = errors.New("missing arguments")
	errCheckFailed      = errors.New("one or more catalogs failed to parse")
	errConflictingFlags = errors.New("-po and -zstd cannot be combined")
)

type commandEnv struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(env *commandEnv, args []string) error
}

var commands = map[string]command{
	"check":   {summary: "parse catalogs and report problems and statistics", run: runCheck},
	"export":  {summary: "re-serialize a catalog as TS, zstd-compressed TS or gettext PO", run: runExport},
	"merge":   {summary: "merge catalogs into a base catalog (see -policy for overlapping messages)", run: runMerge},
	"prune":   {summary: "remove obsolete messages from a catalog", run: runPrune},
	"tr":      {summary: "translate a source text using the configured catalog directories", run: runTr},
	"version": {summary: "print version information", run: runVersion},
}

func commandNames() iter.Seq[string] {
	return maps.Keys(commands)
}

func (env *commandEnv) flagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet("tscat "+name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	fs.Usage = func() {
		fmt.Fprintf(env.stderr, "Usage: tscat %s %s\n", name, usage)
		fs.PrintDefaults()
	}

	return fs
}

// policyFlag registers -policy with the configured duplicate policy as its
// default.
func (env *commandEnv) policyFlag(fs *flag.FlagSet) *string {
	return fs.String("policy", env.cfg.Catalog.DuplicatePolicy.String(),
		"Duplicate message policy: reject, overwrite or keep-first.")
}

func (env *commandEnv) readCatalog(path string, policy catalog.DuplicatePolicy) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user supplied catalog path
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cat, warnings, err := tsfile.Parse(data, catalog.WithDuplicatePolicy(policy))
	for _, w := range warnings {
		log.Warn().Err(w).Str("file", path).Msg("Catalog warning")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cat, nil
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
// Existing files are replaced atomically.
func (env *commandEnv) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := env.stdout.Write(data)

		return err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("bytes", len(data)).Msg("Wrote output")

	return nil
}

func runCheck(env *commandEnv, args []string) error {
	fs := env.flagSet("check", "[-policy p] <file>...")
	policyName := env.policyFlag(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()

		return errMissingArguments
	}

	policy, err := catalog.ParseDuplicatePolicy(*policyName)
	if err != nil {
		return err
	}

	failed := false

	for _, path := range fs.Args() {
		data, err := os.ReadFile(path) // #nosec G304 -- user supplied catalog path
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		cat, warnings, err := tsfile.Parse(data, catalog.WithDuplicatePolicy(policy))
		for _, w := range warnings {
			fmt.Fprintf(env.stdout, "%s: warning: %v\n", path, w)
		}

		if err != nil {
			fmt.Fprintf(env.stdout, "%s: error: %v\n", path, err)

			failed = true

			continue
		}

		st := cat.Stats()
		fmt.Fprintf(env.stdout, "%s: %d contexts, %d messages (%d finished, %d unfinished, %d obsolete), %d warnings\n",
			path, st.Contexts, st.Messages, st.Finished, st.Unfinished, st.Obsolete, len(warnings))
	}

	if failed {
		return errCheckFailed
	}

	return nil
}

func runExport(env *commandEnv, args []string) error {
	fs := env.flagSet("export", "[-o file] [-zstd | -po] <file>")
	out := fs.String("o", "", "Output file. Defaults to standard output.")
	compress := fs.Bool("zstd", false, "Compress the TS output with zstd.")
	asPO := fs.Bool("po", false, "Write a gettext PO file instead of TS.")
	policyName := env.policyFlag(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()

		return errMissingArguments
	}

	if *compress && *asPO {
		return errConflictingFlags
	}

	policy, err := catalog.ParseDuplicatePolicy(*policyName)
	if err != nil {
		return err
	}

	cat, err := env.readCatalog(fs.Arg(0), policy)
	if err != nil {
		return err
	}

	var data []byte

	switch {
	case *asPO:
		data, err = pofile.Marshal(cat)
	case *compress:
		if data, err = tsfile.Marshal(cat); err == nil {
			data, err = tsfile.Compress(data)
		}
	default:
		data, err = tsfile.Marshal(cat)
	}

	if err != nil {
		return err
	}

	return env.writeOutput(*out, data)
}

// runMerge merges catalogs through a private store so that a failing merge
// leaves the result of the previous ones intact.
func runMerge(env *commandEnv, args []string) error {
	fs := env.flagSet("merge", "[-o file] [-policy p] <base> <file>...\n\n"+
		"A message present in both the base and a merged file fails the merge\n"+
		"under the reject policy. Use -policy overwrite or -policy keep-first\n"+
		"to re-import updated catalogs.\n")
	out := fs.String("o", "", "Output file. Defaults to standard output.")
	policyName := env.policyFlag(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 2 {
		fs.Usage()

		return errMissingArguments
	}

	policy, err := catalog.ParseDuplicatePolicy(*policyName)
	if err != nil {
		return err
	}

	const locale = "und"

	s := store.New(
		store.WithLogger(log.With().Str("sys", "store").Logger()),
		store.WithDuplicatePolicy(policy),
	)

	base, err := os.ReadFile(fs.Arg(0)) // #nosec G304 -- user supplied catalog path
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fs.Arg(0), err)
	}

	h, err := s.Load(locale, base)
	if err != nil {
		return err
	}

	for _, path := range fs.Args()[1:] {
		data, err := os.ReadFile(path) // #nosec G304 -- user supplied catalog path
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		if h, err = s.Merge(locale, data); err != nil {
			return err
		}
	}

	data, err := s.Export(h)
	if err != nil {
		return err
	}

	return env.writeOutput(*out, data)
}

func runPrune(env *commandEnv, args []string) error {
	fs := env.flagSet("prune", "[-o file] <file>")
	out := fs.String("o", "", "Output file. Defaults to standard output.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()

		return errMissingArguments
	}

	cat, err := env.readCatalog(fs.Arg(0), env.cfg.Catalog.DuplicatePolicy)
	if err != nil {
		return err
	}

	n := cat.PruneObsolete()
	log.Info().Int("removed", n).Str("file", fs.Arg(0)).Msg("Pruned obsolete messages")

	data, err := tsfile.Marshal(cat)
	if err != nil {
		return err
	}

	return env.writeOutput(*out, data)
}

func runTr(env *commandEnv, args []string) error {
	fs := env.flagSet("tr", "[-locale l] [-context c] [-comment d] [-form n] <source> [arg...]")
	locale := fs.String("locale", "", "Locale to translate into. Defaults to Catalog.DefaultLocale.")
	contextName := fs.String("context", "", "Context name.")
	comment := fs.String("comment", "", "Disambiguation comment.")
	form := fs.Int("form", -1, "Numerus form to select.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()

		return errMissingArguments
	}

	if err := i18n.Setup(env.cfg); err != nil {
		return err
	}

	ctx := context.Background()

	if *locale != "" {
		tag, err := store.ParseLocale(*locale)
		if err != nil {
			return err
		}

		ctx = i18n.WithTag(ctx, tag)
	}

	source := fs.Arg(0)

	trArgs := make([]any, 0, fs.NArg()-1)
	for _, a := range fs.Args()[1:] {
		trArgs = append(trArgs, a)
	}

	var text string

	if *form >= 0 {
		text = i18n.TrFD(ctx, *contextName, source, *comment, *form, trArgs...)
	} else {
		r := i18n.Default.Resolver(i18n.TagFrom(ctx).String())

		var err error
		if text, err = r.TranslateE(*contextName, source, *comment, trArgs...); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(env.stdout, text)

	return err
}

func runVersion(env *commandEnv, _ []string) error {
	_, err := fmt.Fprintf(env.stdout, "tscat %s (%s)\n", config.BuildVersion, env.cfg.Build.Revision())

	return err
}
