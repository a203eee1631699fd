package entity

// PokemonSummary is the lightweight record kept in the catalog snapshot and
// returned by list, sort and search views. Image holds the official artwork
// URL when available, otherwise the default front sprite.
type PokemonSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Image string `json:"image"`
}

// PokemonDetail is the full per-Pokemon record assembled from the primary
// pokemon document and its species document.
type PokemonDetail struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Height         int              `json:"height"`
	Weight         int              `json:"weight"`
	BaseExperience int              `json:"base_experience"`
	Images         PokemonImages    `json:"images"`
	Types          []PokemonType    `json:"types"`
	Abilities      []PokemonAbility `json:"abilities"`
	Moves          []NamedResource  `json:"moves"`
	Forms          []NamedResource  `json:"forms"`
	Stats          []PokemonStat    `json:"stats"`
	Species        SpeciesInfo      `json:"species"`
}

type PokemonImages struct {
	FrontDefault    string `json:"front_default"`
	FrontShiny      string `json:"front_shiny"`
	OfficialArtwork string `json:"official_artwork"`
}

type PokemonType struct {
	Slot int    `json:"slot"`
	Name string `json:"name"`
}

type PokemonAbility struct {
	Name     string `json:"name"`
	IsHidden bool   `json:"is_hidden"`
	Slot     int    `json:"slot"`
}

// NamedResource is a name plus the upstream URL it resolves to.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type PokemonStat struct {
	Name     string `json:"name"`
	BaseStat int    `json:"base_stat"`
	Effort   int    `json:"effort"`
}

// SpeciesInfo carries the English flavor text and genus for a species.
type SpeciesInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Genera      string `json:"genera"`
}
