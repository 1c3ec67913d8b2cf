// Package pokedex holds the list and detail views of the catalog.
package pokedex

import (
	"strings"

	"github.com/BielosX/wombat/pokedex/src/pokeapi"
)

// Filter keeps the entries whose name contains term, ignoring case.
// The term is matched verbatim, surrounding spaces included.
func Filter(list []pokeapi.PokemonResult, term string) []pokeapi.PokemonResult {
	if term == "" {
		return list
	}
	term = strings.ToLower(term)
	result := make([]pokeapi.PokemonResult, 0, len(list))
	for _, pokemon := range list {
		if strings.Contains(strings.ToLower(pokemon.Name), term) {
			result = append(result, pokemon)
		}
	}
	return result
}

// FindColor returns the first entry named exactly name, or nil.
func FindColor(colors []pokeapi.PokemonColor, name string) *pokeapi.PokemonColor {
	for i := range colors {
		if colors[i].Name == name {
			found := colors[i]
			return &found
		}
	}
	return nil
}
