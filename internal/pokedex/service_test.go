package pokedex

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedexapi/internal/platform/pokeapi"
	"pokedexapi/internal/usecase"
)

// fakeUpstream is an in-memory Upstream backed by a fixture set.
type fakeUpstream struct {
	mu      sync.Mutex
	index   []pokeapi.NamedAPIResource
	pokemon map[string]*pokeapi.Pokemon
	species map[string]*pokeapi.Species

	failDetails map[string]bool
	listErr     error

	listCalls int32
	// listGate, when set, blocks ListPokemon until the channel is closed.
	listGate chan struct{}
}

func (f *fakeUpstream) ListPokemon(ctx context.Context, limit, offset int) (*pokeapi.Page, error) {
	atomic.AddInt32(&f.listCalls, 1)
	if f.listGate != nil {
		select {
		case <-f.listGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.listErr != nil {
		return nil, f.listErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	page := &pokeapi.Page{Count: len(f.index)}
	if offset < len(f.index) {
		end := offset + limit
		if end > len(f.index) {
			end = len(f.index)
		}
		page.Results = f.index[offset:end]
	}
	if offset+limit < len(f.index) {
		next := fmt.Sprintf("https://upstream.test/pokemon?limit=%d&offset=%d", limit, offset+limit)
		page.Next = &next
	}
	if offset > 0 {
		prev := fmt.Sprintf("https://upstream.test/pokemon?limit=%d&offset=%d", limit, offset-limit)
		page.Previous = &prev
	}
	return page, nil
}

func (f *fakeUpstream) GetPokemon(ctx context.Context, idOrName string) (*pokeapi.Pokemon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDetails[idOrName] {
		return nil, fmt.Errorf("get %s: connection reset", idOrName)
	}
	p, ok := f.pokemon[idOrName]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", idOrName, pokeapi.ErrNotFound)
	}
	return p, nil
}

func (f *fakeUpstream) GetSpecies(ctx context.Context, speciesURL string) (*pokeapi.Species, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.species[speciesURL]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", speciesURL, pokeapi.ErrNotFound)
	}
	return s, nil
}

func (f *fakeUpstream) PokemonURL(id int) string {
	return fmt.Sprintf("https://upstream.test/pokemon/%d/", id)
}

func newFixturePokemon(id int, name string) *pokeapi.Pokemon {
	p := &pokeapi.Pokemon{ID: id, Name: name}
	p.Sprites.FrontDefault = fmt.Sprintf("https://img.test/%d/front.png", id)
	p.Sprites.Other.OfficialArtwork.FrontDefault = fmt.Sprintf("https://img.test/%d/artwork.png", id)
	p.Species = pokeapi.NamedAPIResource{
		Name: name,
		URL:  fmt.Sprintf("https://upstream.test/pokemon-species/%d/", id),
	}
	return p
}

// newFakeUpstream builds a fixture catalog in upstream ID order.
func newFakeUpstream(entries map[int]string) *fakeUpstream {
	f := &fakeUpstream{
		pokemon:     make(map[string]*pokeapi.Pokemon),
		species:     make(map[string]*pokeapi.Species),
		failDetails: make(map[string]bool),
	}

	maxID := 0
	for id := range entries {
		if id > maxID {
			maxID = id
		}
	}
	for id := 1; id <= maxID; id++ {
		name, ok := entries[id]
		if !ok {
			continue
		}
		p := newFixturePokemon(id, name)
		f.pokemon[name] = p
		f.pokemon[fmt.Sprintf("%d", id)] = p
		f.index = append(f.index, pokeapi.NamedAPIResource{
			Name: name,
			URL:  fmt.Sprintf("https://upstream.test/pokemon/%d/", id),
		})
	}
	return f
}

var fixtureSet = map[int]string{
	1: "bulbasaur",
	2: "ivysaur",
	3: "venusaur",
	4: "charmander",
	5: "pikachu",
	6: "pikipek",
}

func newTestService(f *fakeUpstream) *Service {
	return NewService(f, nil, Config{})
}

func TestService_ListPage(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	svc := newTestService(f)

	result, err := svc.ListPage(context.Background(), 2, 2)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Count)
	require.NotNil(t, result.Next)
	require.NotNil(t, result.Previous)
	assert.False(t, result.Partial)

	require.Len(t, result.Results, 2)
	assert.Equal(t, 3, result.Results[0].ID)
	assert.Equal(t, "venusaur", result.Results[0].Name)
	assert.Equal(t, "https://img.test/3/artwork.png", result.Results[0].Image)
	assert.Equal(t, "https://upstream.test/pokemon/3/", result.Results[0].URL)
	assert.Equal(t, "charmander", result.Results[1].Name)
}

func TestService_ListPage_ImageFallsBackToFrontSprite(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	f.pokemon["bulbasaur"].Sprites.Other.OfficialArtwork.FrontDefault = ""
	svc := newTestService(f)

	result, err := svc.ListPage(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "https://img.test/1/front.png", result.Results[0].Image)
}

func TestService_ListPage_DropsFailedDetails(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	f.failDetails["ivysaur"] = true
	svc := newTestService(f)

	result, err := svc.ListPage(context.Background(), 3, 0)
	require.NoError(t, err)

	assert.True(t, result.Partial)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "bulbasaur", result.Results[0].Name)
	assert.Equal(t, "venusaur", result.Results[1].Name)
}

func TestService_ListPage_UpstreamError(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	f.listErr = fmt.Errorf("connection refused")
	svc := newTestService(f)

	_, err := svc.ListPage(context.Background(), 20, 0)
	assert.Error(t, err)
}

func TestService_SortedPage_NumberMatchesListPage(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	svc := newTestService(f)

	listed, err := svc.ListPage(context.Background(), 3, 1)
	require.NoError(t, err)
	sorted, err := svc.SortedPage(context.Background(), 3, 1, usecase.SortByNumber)
	require.NoError(t, err)

	assert.Equal(t, listed, sorted)
}

func TestService_SortedPage_ByName(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	svc := newTestService(f)

	result, err := svc.SortedPage(context.Background(), 10, 0, usecase.SortByName)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Count)
	assert.Nil(t, result.Next)
	require.Len(t, result.Results, 6)
	for i := 1; i < len(result.Results); i++ {
		assert.LessOrEqual(t, result.Results[i-1].Name, result.Results[i].Name)
	}
	assert.Equal(t, "bulbasaur", result.Results[0].Name)
	assert.Equal(t, "venusaur", result.Results[5].Name)
}

func TestService_SortedPage_ByNameSlicing(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	svc := newTestService(f)

	result, err := svc.SortedPage(context.Background(), 2, 2, usecase.SortByName)
	require.NoError(t, err)

	// Full name order: bulbasaur, charmander, ivysaur, pikachu, pikipek, venusaur.
	assert.Equal(t, 6, result.Count, "count is the full index size, not the page size")
	require.Len(t, result.Results, 2)
	assert.Equal(t, "ivysaur", result.Results[0].Name)
	assert.Equal(t, "pikachu", result.Results[1].Name)
}

func TestService_SortedPage_OffsetPastEnd(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	svc := newTestService(f)

	result, err := svc.SortedPage(context.Background(), 10, 100, usecase.SortByName)
	require.NoError(t, err)
	assert.Equal(t, 6, result.Count)
	assert.Empty(t, result.Results)
}

func TestService_Search_Substring(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	svc := newTestService(f)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"lowercase", "pika", []string{"pikachu", "pikipek"}},
		{"case insensitive", "PIKA", []string{"pikachu", "pikipek"}},
		{"mid-word", "saur", []string{"bulbasaur", "ivysaur", "venusaur"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Search(context.Background(), tt.query, 20, 0)
			require.NoError(t, err)

			assert.Equal(t, len(tt.want), result.Count)
			var got []string
			for _, r := range result.Results {
				got = append(got, r.Name)
			}
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "charmander")
		})
	}
}

func TestService_Search_CountBeforePagination(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	svc := newTestService(f)

	result, err := svc.Search(context.Background(), "saur", 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Count)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "ivysaur", result.Results[0].Name)
}

func TestService_Search_NumericHit(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	svc := newTestService(f)

	result, err := svc.Search(context.Background(), "5", 20, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "pikachu", result.Results[0].Name)
	assert.Equal(t, 5, result.Results[0].ID)
	assert.Equal(t, "https://upstream.test/pokemon/5/", result.Results[0].URL)
}

func TestService_Search_NameMissIsNotFound(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	svc := newTestService(f)

	result, err := svc.Search(context.Background(), "mewtwo", 20, 0)
	require.ErrorIs(t, err, usecase.ErrNotFound)
	require.ErrorContains(t, err, "mewtwo")
	assert.Nil(t, result)
}

func TestService_Search_NumericMissIsNotAnError(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	svc := newTestService(f)

	result, err := svc.Search(context.Background(), "99999", 20, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Results)
}

func TestService_Detail(t *testing.T) {
	f := newFakeUpstream(fixtureSet)

	p := f.pokemon["pikachu"]
	p.Height = 4
	p.Weight = 60
	p.BaseExperience = 112
	p.Sprites.FrontShiny = "https://img.test/5/shiny.png"
	p.Types = append(p.Types, struct {
		Slot int                      `json:"slot"`
		Type pokeapi.NamedAPIResource `json:"type"`
	}{Slot: 1, Type: pokeapi.NamedAPIResource{Name: "electric"}})
	p.Abilities = append(p.Abilities, struct {
		IsHidden bool                     `json:"is_hidden"`
		Slot     int                      `json:"slot"`
		Ability  pokeapi.NamedAPIResource `json:"ability"`
	}{IsHidden: true, Slot: 3, Ability: pokeapi.NamedAPIResource{Name: "lightning-rod"}})
	p.Moves = append(p.Moves, struct {
		Move pokeapi.NamedAPIResource `json:"move"`
	}{Move: pokeapi.NamedAPIResource{Name: "thunder-shock", URL: "https://upstream.test/move/84/"}})
	p.Forms = append(p.Forms, pokeapi.NamedAPIResource{Name: "pikachu", URL: "https://upstream.test/pokemon-form/5/"})
	p.Stats = append(p.Stats, struct {
		BaseStat int                      `json:"base_stat"`
		Effort   int                      `json:"effort"`
		Stat     pokeapi.NamedAPIResource `json:"stat"`
	}{BaseStat: 90, Effort: 2, Stat: pokeapi.NamedAPIResource{Name: "speed"}})

	sp := &pokeapi.Species{Name: "pikachu"}
	sp.FlavorTextEntries = append(sp.FlavorTextEntries,
		struct {
			FlavorText string                   `json:"flavor_text"`
			Language   pokeapi.NamedAPIResource `json:"language"`
		}{FlavorText: "Rat souris.", Language: pokeapi.NamedAPIResource{Name: "fr"}},
		struct {
			FlavorText string                   `json:"flavor_text"`
			Language   pokeapi.NamedAPIResource `json:"language"`
		}{FlavorText: "When several of\fthese POKeMON\fgather.", Language: pokeapi.NamedAPIResource{Name: "en"}},
	)
	sp.Genera = append(sp.Genera,
		struct {
			Genus    string                   `json:"genus"`
			Language pokeapi.NamedAPIResource `json:"language"`
		}{Genus: "Souris", Language: pokeapi.NamedAPIResource{Name: "fr"}},
		struct {
			Genus    string                   `json:"genus"`
			Language pokeapi.NamedAPIResource `json:"language"`
		}{Genus: "Mouse Pokemon", Language: pokeapi.NamedAPIResource{Name: "en"}},
	)
	f.species[p.Species.URL] = sp

	svc := newTestService(f)

	detail, err := svc.Detail(context.Background(), "pikachu")
	require.NoError(t, err)

	assert.Equal(t, 5, detail.ID)
	assert.Equal(t, "pikachu", detail.Name)
	assert.Equal(t, 4, detail.Height)
	assert.Equal(t, 60, detail.Weight)
	assert.Equal(t, 112, detail.BaseExperience)
	assert.Equal(t, "https://img.test/5/shiny.png", detail.Images.FrontShiny)
	assert.Equal(t, "https://img.test/5/artwork.png", detail.Images.OfficialArtwork)

	require.Len(t, detail.Types, 1)
	assert.Equal(t, "electric", detail.Types[0].Name)
	require.Len(t, detail.Abilities, 1)
	assert.True(t, detail.Abilities[0].IsHidden)
	require.Len(t, detail.Moves, 1)
	assert.Equal(t, "thunder-shock", detail.Moves[0].Name)
	require.Len(t, detail.Forms, 1)
	require.Len(t, detail.Stats, 1)
	assert.Equal(t, 90, detail.Stats[0].BaseStat)

	assert.Equal(t, "pikachu", detail.Species.Name)
	assert.Equal(t, "When several of these POKeMON gather.", detail.Species.Description,
		"form feeds in flavor text should become spaces")
	assert.Equal(t, "Mouse Pokemon", detail.Species.Genera)
}

func TestService_Detail_NotFound(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	svc := newTestService(f)

	_, err := svc.Detail(context.Background(), "99999")
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	assert.ErrorContains(t, err, "99999")
}

func TestService_Detail_SpeciesFailureIsNotANotFound(t *testing.T) {
	f := newFakeUpstream(fixtureSet)
	// No species fixture registered for bulbasaur, so the secondary fetch
	// fails even though the primary lookup succeeded.
	svc := newTestService(f)

	_, err := svc.Detail(context.Background(), "bulbasaur")
	require.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrNotFound)
}
