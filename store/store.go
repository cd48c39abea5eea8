// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/tscat/tscat/catalog"
	"codeberg.org/tscat/tscat/resolve"
	"codeberg.org/tscat/tscat/tsfile"
)

var (
	// ErrInvalidLocale is returned for locale names that are not BCP 47 tags.
	ErrInvalidLocale = errors.New("invalid locale")

	// ErrInvalidHandle is returned by Export for the zero Handle.
	ErrInvalidHandle = errors.New("invalid catalog handle")

	// ErrDuplicateLocale is returned by LoadFS when two files map to the
	// same locale.
	ErrDuplicateLocale = errors.New("locale loaded from more than one file")
)

// Handle refers to one published version of a locale's catalog. The
// catalog behind a Handle never changes; later loads publish new handles.
type Handle struct {
	Locale     language.Tag
	Generation uint64

	cat *catalog.Catalog
}

// Valid reports whether h refers to a catalog.
func (h Handle) Valid() bool { return h.cat != nil }

// Catalog returns the catalog behind h. It must not be modified.
func (h Handle) Catalog() *catalog.Catalog { return h.cat }

type entry struct {
	handle   Handle
	resolver *resolve.Resolver
}

// snapshot is the immutable registry state seen by readers. Locales are
// keyed by canonical tag string.
type snapshot struct {
	locales map[string]*entry
	active  language.Tag
}

type loaded struct {
	tag language.Tag
	cat *catalog.Catalog
}

// Option configures a [Store].
type Option func(*Store)

// WithDuplicatePolicy sets the policy applied while loading and merging.
func WithDuplicatePolicy(p catalog.DuplicatePolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithResolverOptions sets options for the resolvers built for each locale.
func WithResolverOptions(opts ...resolve.Option) Option {
	return func(s *Store) { s.resolveOpts = append(s.resolveOpts, opts...) }
}

// WithLogger sets the logger used for load warnings and, unless a reporter
// is given through WithResolverOptions, for resolver diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithActiveLocale sets the initial active locale. Invalid names are
// ignored.
func WithActiveLocale(locale string) Option {
	return func(s *Store) {
		if tag, err := ParseLocale(locale); err == nil {
			s.initialActive = tag
		}
	}
}

// Store is a registry of per-locale catalogs.
//
// Readers never block: they load the current snapshot atomically. Writers
// are serialized, build the new catalog off to the side and publish it with
// a single pointer swap, so a reader sees either the old or the new catalog
// and never a partially loaded one.
type Store struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[snapshot]
	gen  uint64

	policy        catalog.DuplicatePolicy
	resolveOpts   []resolve.Option
	logger        zerolog.Logger
	initialActive language.Tag

	// fallback resolves every key as missing.
	fallback *resolve.Resolver
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		logger: log.With().Str("sys", "store").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	reporter := resolve.NewLogReporter(s.logger, true)
	s.resolveOpts = append([]resolve.Option{resolve.WithReporter(reporter)}, s.resolveOpts...)
	s.fallback = s.newResolver(language.Und, nil)

	s.snap.Store(&snapshot{
		locales: map[string]*entry{},
		active:  s.initialActive,
	})

	return s
}

// ParseLocale parses a locale name such as "de", "de-DE" or "de_DE" into a
// canonical tag.
func ParseLocale(locale string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%w %q: %w", ErrInvalidLocale, locale, err)
	}

	return tag, nil
}

func (s *Store) newResolver(tag language.Tag, cat *catalog.Catalog) *resolve.Resolver {
	opts := slices.Clone(s.resolveOpts)
	if tag != language.Und {
		opts = append(opts, resolve.WithLocale(tag.String()))
	}

	return resolve.New(cat, opts...)
}

// Load parses data and publishes it as the catalog for locale, replacing
// any previous one. On error the previous catalog stays published.
func (s *Store) Load(locale string, data []byte) (Handle, error) {
	tag, err := ParseLocale(locale)
	if err != nil {
		return Handle{}, err
	}

	cat, warnings, err := tsfile.Parse(data, catalog.WithDuplicatePolicy(s.policy))
	s.logWarnings(tag, warnings)

	if err != nil {
		return Handle{}, fmt.Errorf("failed to load %s: %w", tag, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.publish(loaded{tag: tag, cat: cat})[0], nil
}

// Merge decodes data into a copy of locale's current catalog using the
// store's duplicate policy and publishes the result. Contexts present in
// both are combined. On error the previous catalog stays published.
func (s *Store) Merge(locale string, data []byte) (Handle, error) {
	tag, err := ParseLocale(locale)
	if err != nil {
		return Handle{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var cat *catalog.Catalog
	if e, ok := s.snap.Load().locales[tag.String()]; ok {
		cat = e.handle.cat.Clone()
		cat.SetPolicy(s.policy)
	} else {
		cat = catalog.New(catalog.WithDuplicatePolicy(s.policy))
	}

	cat.SetMergeMode(true)

	warnings, err := tsfile.Decode(cat, data)
	s.logWarnings(tag, warnings)

	if err != nil {
		return Handle{}, fmt.Errorf("failed to merge into %s: %w", tag, err)
	}

	cat.SetMergeMode(false)

	return s.publish(loaded{tag: tag, cat: cat})[0], nil
}

// Unload removes locale from the store. Lookups in that locale fall back to
// its parent locales or to the source text. It reports whether the locale
// was loaded.
func (s *Store) Unload(locale string) bool {
	tag, err := ParseLocale(locale)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.snap.Load()
	if _, ok := old.locales[tag.String()]; !ok {
		return false
	}

	next := &snapshot{locales: maps.Clone(old.locales), active: old.active}
	delete(next.locales, tag.String())
	s.snap.Store(next)

	s.logger.Info().Str("locale", tag.String()).Msg("Unloaded catalog")

	return true
}

// publish installs cats in one swap. The caller must hold s.mu.
func (s *Store) publish(cats ...loaded) []Handle {
	old := s.snap.Load()
	next := &snapshot{locales: maps.Clone(old.locales), active: old.active}
	handles := make([]Handle, 0, len(cats))

	for _, l := range cats {
		s.gen++

		tag, cat := l.tag, l.cat
		h := Handle{Locale: tag, Generation: s.gen, cat: cat}
		next.locales[tag.String()] = &entry{handle: h, resolver: s.newResolver(tag, cat)}
		handles = append(handles, h)

		stats := cat.Stats()
		s.logger.Info().
			Str("locale", tag.String()).
			Uint64("generation", h.Generation).
			Int("contexts", stats.Contexts).
			Int("messages", stats.Messages).
			Int("finished", stats.Finished).
			Msg("Loaded catalog")
	}

	s.snap.Store(next)

	return handles
}

func (s *Store) logWarnings(tag language.Tag, warnings []error) {
	for _, w := range warnings {
		s.logger.Warn().Err(w).Str("locale", tag.String()).Msg("Catalog warning")
	}
}

// SetActiveLocale selects the locale used by [Store.Translate]. The locale
// does not need to be loaded yet.
func (s *Store) SetActiveLocale(locale string) error {
	tag, err := ParseLocale(locale)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.snap.Load()
	s.snap.Store(&snapshot{locales: old.locales, active: tag})

	return nil
}

// ActiveLocale returns the active locale, or [language.Und] if none is set.
func (s *Store) ActiveLocale() language.Tag {
	return s.snap.Load().active
}

// Handle returns the current handle for locale without parent fallback.
func (s *Store) Handle(locale string) (Handle, bool) {
	tag, err := ParseLocale(locale)
	if err != nil {
		return Handle{}, false
	}

	e, ok := s.snap.Load().locales[tag.String()]
	if !ok {
		return Handle{}, false
	}

	return e.handle, true
}

// Catalog returns the current catalog for locale without parent fallback.
// The catalog must not be modified.
func (s *Store) Catalog(locale string) (*catalog.Catalog, bool) {
	h, ok := s.Handle(locale)

	return h.cat, ok
}

// Export serializes the catalog behind h.
func (s *Store) Export(h Handle) ([]byte, error) {
	if !h.Valid() {
		return nil, ErrInvalidHandle
	}

	return tsfile.Marshal(h.cat)
}

// Locales returns the loaded locales sorted by tag string.
func (s *Store) Locales() []language.Tag {
	locales := s.snap.Load().locales
	tags := make([]language.Tag, 0, len(locales))

	for _, name := range slices.Sorted(maps.Keys(locales)) {
		tags = append(tags, locales[name].handle.Locale)
	}

	return tags
}

// Resolver returns the resolver for locale. When locale is not loaded its
// parent locales are tried in turn ("pt-BR", then "pt"); when none is
// loaded the returned resolver yields source texts. It never returns nil.
func (s *Store) Resolver(locale string) *resolve.Resolver {
	tag, err := ParseLocale(locale)
	if err != nil {
		return s.fallback
	}

	return s.resolverFor(s.snap.Load(), tag)
}

func (s *Store) resolverFor(snap *snapshot, tag language.Tag) *resolve.Resolver {
	for t := tag; ; t = t.Parent() {
		if e, ok := snap.locales[t.String()]; ok {
			return e.resolver
		}

		if t.IsRoot() {
			return s.fallback
		}
	}
}

// Translate resolves a key in the active locale. It never fails; see
// [resolve.Resolver.Translate].
func (s *Store) Translate(context, source, comment string, args ...any) string {
	snap := s.snap.Load()

	return s.resolverFor(snap, snap.active).Translate(context, source, comment, args...)
}

// TranslateIn resolves a key in locale instead of the active locale.
func (s *Store) TranslateIn(locale, context, source, comment string, args ...any) string {
	return s.Resolver(locale).Translate(context, source, comment, args...)
}
