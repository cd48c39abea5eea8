// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"codeberg.org/tscat/tscat/catalog"
	"codeberg.org/tscat/tscat/tsfile"
)

// Catalog file extensions recognized by LoadFS.
const (
	ExtTS    = ".ts"
	ExtTSZst = ".ts.zst"
)

// LocaleFromFilename returns the locale part of a catalog file name such as
// "pt_BR.ts" or "de.ts.zst", and whether name has a catalog extension.
func LocaleFromFilename(name string) (string, bool) {
	name = path.Base(name)

	for _, ext := range []string{ExtTSZst, ExtTS} {
		if stem, ok := strings.CutSuffix(name, ext); ok {
			return stem, true
		}
	}

	return "", false
}

// LoadFS loads every catalog file in dir of fsys. Files are named
// <locale>.ts or <locale>.ts.zst, where <locale> may use hyphens or
// underscores. When the file name is not a valid locale the document's
// language attribute is used instead, and files with neither are skipped.
//
// Files are parsed in parallel. If any of them fails nothing is published;
// otherwise all catalogs are published in one swap.
func (s *Store) LoadFS(fsys fs.FS, dir string) ([]Handle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if _, ok := LocaleFromFilename(entry.Name()); ok {
			files = append(files, entry.Name())
		}
	}

	results := make([]*loaded, len(files))

	var g errgroup.Group

	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range files {
		g.Go(func() error {
			l, err := s.parseFile(fsys, path.Join(dir, name))
			if err != nil {
				return err
			}

			results[i] = l

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		batch []loaded
		seen  = map[string]string{}
	)

	for i, l := range results {
		if l == nil {
			continue
		}

		key := l.tag.String()
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s and %s", ErrDuplicateLocale, prev, files[i])
		}

		seen[key] = files[i]
		batch = append(batch, *l)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.publish(batch...), nil
}

// parseFile returns nil, nil for files whose locale cannot be determined.
func (s *Store) parseFile(fsys fs.FS, name string) (*loaded, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	cat, warnings, err := tsfile.Parse(data, catalog.WithDuplicatePolicy(s.policy))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	stem, _ := LocaleFromFilename(name)

	tag, err := ParseLocale(stem)
	if err != nil && cat.Language != "" {
		tag, err = ParseLocale(cat.Language)
	}

	if err != nil {
		s.logger.Warn().Err(err).Str("file", name).Msg("Skipping catalog with unknown locale")

		return nil, nil //nolint:nilnil
	}

	s.logWarnings(tag, warnings)

	return &loaded{tag: tag, cat: cat}, nil
}
