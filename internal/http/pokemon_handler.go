package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pokedexapi/internal/httpx"
	"pokedexapi/internal/usecase"
)

type PokemonHandler struct {
	svc usecase.PokedexService
}

func NewPokemonHandler(svc usecase.PokedexService) *PokemonHandler {
	return &PokemonHandler{svc: svc}
}

// List serves GET /pokemons with limit/offset pagination and optional
// search and sort parameters.
func (h *PokemonHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := ListQuery{
		Limit:  20,
		Offset: 0,
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		query.Limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		query.Offset = v
	}

	if msg := query.Validate(); msg != "" {
		httpx.Error(w, http.StatusBadRequest, msg)
		return
	}

	var (
		result *usecase.ListResult
		err    error
	)
	switch {
	case query.Search != "":
		result, err = h.svc.Search(ctx, query.Search, query.Limit, query.Offset)
	case query.Sort != "":
		result, err = h.svc.SortedPage(ctx, query.Limit, query.Offset, query.Sort)
	default:
		result, err = h.svc.ListPage(ctx, query.Limit, query.Offset)
	}
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, fmt.Sprintf("Pokemon %q not found", query.Search))
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch Pokemon list")
		return
	}

	httpx.JSON(w, http.StatusOK, result)
}

// Get serves GET /pokemons/{id} where id is a numeric id or a name.
func (h *PokemonHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// crude path param extraction with net/http's ServeMux
	const prefix = "/pokemons/"
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		httpx.Error(w, http.StatusBadRequest, "Pokemon ID is required")
		return
	}

	detail, err := h.svc.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, fmt.Sprintf("Pokemon with ID %s not found", id))
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch Pokemon details")
		return
	}

	httpx.JSON(w, http.StatusOK, detail)
}
