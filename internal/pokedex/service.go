// Package pokedex bridges the upstream catalog, which only supports
// offset/limit pagination, to paged, sorted and searched views backed by a
// TTL-bounded in-memory snapshot of the full index.
package pokedex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"pokedexapi/internal/entity"
	"pokedexapi/internal/platform/pokeapi"
	"pokedexapi/internal/usecase"
)

// Upstream is the slice of the PokeAPI client the service depends on.
type Upstream interface {
	ListPokemon(ctx context.Context, limit, offset int) (*pokeapi.Page, error)
	GetPokemon(ctx context.Context, idOrName string) (*pokeapi.Pokemon, error)
	GetSpecies(ctx context.Context, speciesURL string) (*pokeapi.Species, error)
	// PokemonURL is the canonical upstream URL for a pokemon id.
	PokemonURL(id int) string
}

type Config struct {
	// IndexCap bounds the full-index fetch; sort and search operate only
	// within this horizon, not the true upstream total.
	IndexCap int
	// SnapshotTTL is how long a snapshot is served before a refresh.
	SnapshotTTL time.Duration
	// BatchSize bounds concurrent detail fetches during resolution.
	BatchSize int
}

const (
	defaultIndexCap    = 2000
	defaultSnapshotTTL = time.Hour
	defaultBatchSize   = 50
)

type Service struct {
	upstream Upstream
	logger   *slog.Logger
	cfg      Config

	cache   *snapshotCache
	refresh singleflight.Group
}

var _ usecase.PokedexService = (*Service)(nil)

func NewService(upstream Upstream, logger *slog.Logger, cfg Config) *Service {
	if cfg.IndexCap <= 0 {
		cfg.IndexCap = defaultIndexCap
	}
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = defaultSnapshotTTL
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		upstream: upstream,
		logger:   logger,
		cfg:      cfg,
		cache:    newSnapshotCache(cfg.SnapshotTTL),
	}
}

// ListPage fetches one upstream page and resolves each entry's detail record
// to attach its canonical id and image. Entries whose detail fetch fails are
// dropped and the result is marked partial.
func (s *Service) ListPage(ctx context.Context, limit, offset int) (*usecase.ListResult, error) {
	page, err := s.upstream.ListPokemon(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pokemon: %w", err)
	}

	results, dropped := s.resolveSummaries(ctx, page.Results)
	return &usecase.ListResult{
		Count:    page.Count,
		Next:     page.Next,
		Previous: page.Previous,
		Results:  results,
		Partial:  dropped > 0,
	}, nil
}

// SortedPage serves a page ordered by the sort key. Number order is the
// upstream's native order, so it delegates to ListPage; name order is served
// from the snapshot.
func (s *Service) SortedPage(ctx context.Context, limit, offset int, sortKey string) (*usecase.ListResult, error) {
	if sortKey == usecase.SortByNumber {
		return s.ListPage(ctx, limit, offset)
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &usecase.ListResult{
		Count:   len(snap.byName),
		Results: slicePage(snap.byName, limit, offset),
		Partial: snap.dropped > 0,
	}, nil
}

// Search performs an exact-ID lookup for all-digit queries, otherwise a
// case-insensitive substring match over the snapshot. An ID miss yields an
// empty result; a name miss is usecase.ErrNotFound.
func (s *Service) Search(ctx context.Context, query string, limit, offset int) (*usecase.ListResult, error) {
	if isAllDigits(query) {
		return s.searchByID(ctx, query, limit, offset)
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matches []entity.PokemonSummary
	for _, e := range snap.entries {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("pokemon %q: %w", query, usecase.ErrNotFound)
	}

	return &usecase.ListResult{
		Count:   len(matches),
		Results: slicePage(matches, limit, offset),
		Partial: snap.dropped > 0,
	}, nil
}

func (s *Service) searchByID(ctx context.Context, id string, limit, offset int) (*usecase.ListResult, error) {
	p, err := s.upstream.GetPokemon(ctx, id)
	if errors.Is(err, pokeapi.ErrNotFound) {
		return &usecase.ListResult{Results: []entity.PokemonSummary{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search pokemon %q: %w", id, err)
	}

	match := []entity.PokemonSummary{{
		ID:    p.ID,
		Name:  p.Name,
		URL:   s.upstream.PokemonURL(p.ID),
		Image: p.OfficialArtworkOrDefault(),
	}}
	return &usecase.ListResult{
		Count:   1,
		Results: slicePage(match, limit, offset),
	}, nil
}

// Detail fetches the primary record and its species document and assembles
// the full detail view. Constructed fresh per request; never cached.
func (s *Service) Detail(ctx context.Context, idOrName string) (*entity.PokemonDetail, error) {
	p, err := s.upstream.GetPokemon(ctx, idOrName)
	if errors.Is(err, pokeapi.ErrNotFound) {
		return nil, fmt.Errorf("pokemon %q: %w", idOrName, usecase.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get pokemon %q: %w", idOrName, err)
	}

	species, err := s.upstream.GetSpecies(ctx, p.Species.URL)
	if err != nil {
		return nil, fmt.Errorf("get species for %q: %w", idOrName, err)
	}

	return assembleDetail(p, species), nil
}

// resolveSummaries fetches the detail record behind every reference,
// bounded to BatchSize concurrent requests, and reassembles the results in
// input order. Failed items are logged and excluded.
func (s *Service) resolveSummaries(ctx context.Context, refs []pokeapi.NamedAPIResource) ([]entity.PokemonSummary, int) {
	resolved := make([]*entity.PokemonSummary, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchSize)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			p, err := s.upstream.GetPokemon(gctx, ref.Name)
			if err != nil {
				s.logger.Warn("dropping entry: detail fetch failed",
					"name", ref.Name, "error", err)
				return nil
			}
			resolved[i] = &entity.PokemonSummary{
				ID:    p.ID,
				Name:  ref.Name,
				URL:   ref.URL,
				Image: p.OfficialArtworkOrDefault(),
			}
			return nil
		})
	}
	_ = g.Wait()

	results := make([]entity.PokemonSummary, 0, len(refs))
	for _, r := range resolved {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, len(refs) - len(results)
}

// snapshot returns the current snapshot, rebuilding it when missing or past
// its TTL. Concurrent callers of an expired cache share a single in-flight
// rebuild.
func (s *Service) snapshot(ctx context.Context) (*snapshot, error) {
	if snap, ok := s.cache.get(); ok {
		return snap, nil
	}

	v, err, _ := s.refresh.Do("snapshot", func() (interface{}, error) {
		// A waiter queued behind a completed refresh sees the fresh
		// snapshot here instead of triggering another one.
		if snap, ok := s.cache.get(); ok {
			return snap, nil
		}
		return s.buildSnapshot(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

func (s *Service) buildSnapshot(ctx context.Context) (*snapshot, error) {
	start := time.Now()

	page, err := s.upstream.ListPokemon(ctx, s.cfg.IndexCap, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch name index: %w", err)
	}

	entries, dropped := s.resolveSummaries(ctx, page.Results)
	snap := newSnapshot(entries, dropped)
	s.cache.set(snap)

	s.logger.Info("catalog snapshot refreshed",
		"entries", len(entries),
		"dropped", dropped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

func assembleDetail(p *pokeapi.Pokemon, species *pokeapi.Species) *entity.PokemonDetail {
	d := &entity.PokemonDetail{
		ID:             p.ID,
		Name:           p.Name,
		Height:         p.Height,
		Weight:         p.Weight,
		BaseExperience: p.BaseExperience,
		Images: entity.PokemonImages{
			FrontDefault:    p.Sprites.FrontDefault,
			FrontShiny:      p.Sprites.FrontShiny,
			OfficialArtwork: p.Sprites.Other.OfficialArtwork.FrontDefault,
		},
		Species: entity.SpeciesInfo{
			Name: species.Name,
		},
	}

	for _, t := range p.Types {
		d.Types = append(d.Types, entity.PokemonType{Slot: t.Slot, Name: t.Type.Name})
	}
	for _, a := range p.Abilities {
		d.Abilities = append(d.Abilities, entity.PokemonAbility{
			Name:     a.Ability.Name,
			IsHidden: a.IsHidden,
			Slot:     a.Slot,
		})
	}
	for _, m := range p.Moves {
		d.Moves = append(d.Moves, entity.NamedResource{Name: m.Move.Name, URL: m.Move.URL})
	}
	for _, f := range p.Forms {
		d.Forms = append(d.Forms, entity.NamedResource{Name: f.Name, URL: f.URL})
	}
	for _, st := range p.Stats {
		d.Stats = append(d.Stats, entity.PokemonStat{
			Name:     st.Stat.Name,
			BaseStat: st.BaseStat,
			Effort:   st.Effort,
		})
	}

	for _, entry := range species.FlavorTextEntries {
		if entry.Language.Name == "en" {
			// PokeAPI flavor text embeds form feeds as line breaks.
			d.Species.Description = strings.ReplaceAll(entry.FlavorText, "\f", " ")
			break
		}
	}
	for _, g := range species.Genera {
		if g.Language.Name == "en" {
			d.Species.Genera = g.Genus
			break
		}
	}
	return d
}

func slicePage(entries []entity.PokemonSummary, limit, offset int) []entity.PokemonSummary {
	if offset >= len(entries) {
		return []entity.PokemonSummary{}
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
