package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotFound reports an upstream 404 for a direct lookup.
var ErrNotFound = errors.New("pokeapi: resource not found")

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient(baseURL, userAgent string, rps int) *Client {
	if rps < 1 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: userAgent,
		baseURL:   baseURL,
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), rps),
	}
}

// NamedAPIResource is a name/URL pair as returned by list endpoints.
type NamedAPIResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Page matches GET /pokemon?limit&offset.
type Page struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []NamedAPIResource `json:"results"`
}

// Pokemon matches GET /pokemon/{idOrName}.
type Pokemon struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Height         int    `json:"height"`
	Weight         int    `json:"weight"`
	BaseExperience int    `json:"base_experience"`
	Sprites        struct {
		FrontDefault string `json:"front_default"`
		FrontShiny   string `json:"front_shiny"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Species NamedAPIResource `json:"species"`
	Types   []struct {
		Slot int              `json:"slot"`
		Type NamedAPIResource `json:"type"`
	} `json:"types"`
	Abilities []struct {
		IsHidden bool             `json:"is_hidden"`
		Slot     int              `json:"slot"`
		Ability  NamedAPIResource `json:"ability"`
	} `json:"abilities"`
	Moves []struct {
		Move NamedAPIResource `json:"move"`
	} `json:"moves"`
	Forms []NamedAPIResource `json:"forms"`
	Stats []struct {
		BaseStat int              `json:"base_stat"`
		Effort   int              `json:"effort"`
		Stat     NamedAPIResource `json:"stat"`
	} `json:"stats"`
}

// Species matches the document behind Pokemon.Species.URL.
type Species struct {
	Name              string `json:"name"`
	FlavorTextEntries []struct {
		FlavorText string           `json:"flavor_text"`
		Language   NamedAPIResource `json:"language"`
	} `json:"flavor_text_entries"`
	Genera []struct {
		Genus    string           `json:"genus"`
		Language NamedAPIResource `json:"language"`
	} `json:"genera"`
}

// OfficialArtworkOrDefault returns the official artwork sprite when set,
// falling back to the default front sprite.
func (p *Pokemon) OfficialArtworkOrDefault() string {
	if art := p.Sprites.Other.OfficialArtwork.FrontDefault; art != "" {
		return art
	}
	return p.Sprites.FrontDefault
}

func (c *Client) ListPokemon(ctx context.Context, limit, offset int) (*Page, error) {
	u := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", c.baseURL, limit, offset)

	var page Page
	if err := c.get(ctx, u, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetPokemon(ctx context.Context, idOrName string) (*Pokemon, error) {
	u := fmt.Sprintf("%s/pokemon/%s", c.baseURL, url.PathEscape(idOrName))

	var p Pokemon
	if err := c.get(ctx, u, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PokemonURL returns the canonical upstream URL for a pokemon id.
func (c *Client) PokemonURL(id int) string {
	return fmt.Sprintf("%s/pokemon/%d", c.baseURL, id)
}

// GetSpecies fetches the species document via the URL embedded in a Pokemon
// record.
func (c *Client) GetSpecies(ctx context.Context, speciesURL string) (*Species, error) {
	var s Species
	if err := c.get(ctx, speciesURL, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("get %s: %w", url, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("get %s: unexpected status code: %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
