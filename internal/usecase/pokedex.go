package usecase

import (
	"context"
	"errors"

	"pokedexapi/internal/entity"
)

// ErrNotFound is returned when the upstream catalog reports a 404 for a
// direct lookup.
var ErrNotFound = errors.New("not found")

// Sort keys accepted by SortedPage.
const (
	SortByNumber = "number"
	SortByName   = "name"
)

// ListResult is a page of summaries plus pagination metadata. Next and
// Previous carry the upstream cursor URLs and are null for sorted and
// searched views. Partial is set when per-item resolution dropped entries.
type ListResult struct {
	Count    int                     `json:"count"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
	Results  []entity.PokemonSummary `json:"results"`
	Partial  bool                    `json:"partial,omitempty"`
}

// PokedexService presents paginated, sortable, searchable views over the
// upstream catalog.
type PokedexService interface {
	// ListPage serves one upstream page in native ID order.
	ListPage(ctx context.Context, limit, offset int) (*ListResult, error)
	// SortedPage serves a page ordered by the given sort key.
	SortedPage(ctx context.Context, limit, offset int, sortKey string) (*ListResult, error)
	// Search matches an exact ID (all-digit query) or a case-insensitive
	// name substring. An ID miss yields an empty result, not an error; a
	// name query with no matches is ErrNotFound.
	Search(ctx context.Context, query string, limit, offset int) (*ListResult, error)
	// Detail assembles the full record for one Pokemon by id or name.
	Detail(ctx context.Context, idOrName string) (*entity.PokemonDetail, error)
}
