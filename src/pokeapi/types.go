package pokeapi

type PokemonResult struct {
	Name string `json:"name"`
	Url  string `json:"url"`
}

type ListPage struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []PokemonResult `json:"results"`
}

type PokemonSprites struct {
	FrontDefault string `json:"front_default"`
}

type PokemonDetail struct {
	Id      int32          `json:"id"`
	Name    string         `json:"name"`
	Height  int32          `json:"height"`
	Weight  int32          `json:"weight"`
	Sprites PokemonSprites `json:"sprites"`
}

// PokemonColor is an entry of the bundled color dataset, keyed by Pokemon name.
type PokemonColor struct {
	Name   string `json:"name"`
	Color1 string `json:"color1"`
	Color2 string `json:"color2"`
}
