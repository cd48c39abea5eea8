// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/tscat/tscat/config"
	"codeberg.org/tscat/tscat/resolve"
	"codeberg.org/tscat/tscat/store"
)

var (
	// Logger is the logger used by package i18n.
	Logger zerolog.Logger

	// Default is the process-wide store used by [Tr] and friends. It is
	// replaced by [Setup].
	Default = store.New()
)

// Setup builds a new [Default] store from cfg.
//
// It scans each of cfg.Catalog.Dirs for catalog files. The expected layout is:
//
//	<dir>/<locale>.ts
//	<dir>/<locale>.ts.zst
//
// The <locale> filename part may use hyphens or underscores, for example
// "pt-BR.ts" or "pt_BR.ts". Directories that do not exist are skipped with
// a warning. A locale found in more than one directory takes the catalog
// from the last one.
//
// Calling Setup again replaces the previous store. On error [Default] is
// left unchanged.
func Setup(cfg *config.Config) error {
	Logger = log.With().Str("sys", "i18n").Logger()

	s := NewStore(cfg)

	for _, dir := range cfg.Catalog.Dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			Logger.Warn().Str("dir", dir).Msg("Skipping missing catalog directory")

			continue
		}

		handles, err := s.LoadFS(os.DirFS(dir), ".")
		if err != nil {
			return fmt.Errorf("failed to load catalogs from %s: %w", dir, err)
		}

		Logger.Info().
			Str("dir", dir).
			Int("count", len(handles)).
			Msg("Loaded catalog directory")
	}

	Default = s

	return nil
}

// NewStore returns an empty store configured from cfg.
func NewStore(cfg *config.Config) *store.Store {
	storeLogger := log.With().Str("sys", "store").Logger()

	return store.New(
		store.WithLogger(storeLogger),
		store.WithDuplicatePolicy(cfg.Catalog.DuplicatePolicy),
		store.WithActiveLocale(cfg.Catalog.DefaultLocale),
		store.WithResolverOptions(
			resolve.WithBestEffort(cfg.Resolver.BestEffort),
			resolve.WithStrictPlaceholders(cfg.Resolver.StrictPlaceholders),
			resolve.WithReporter(resolve.NewLogReporter(
				log.With().Str("sys", "resolve").Logger(),
				cfg.Resolver.LogMissing,
			)),
		),
	)
}

// Languages returns the locales loaded into [Default], sorted by tag string.
func Languages() []language.Tag {
	return Default.Locales()
}
