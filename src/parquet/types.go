package parquet

import "github.com/BielosX/wombat/pokedex/src/pokeapi"

// Pokemon is one row of a catalog snapshot: a detail record joined with its
// bundled colors. Color columns are empty when the dataset has no entry.
type Pokemon struct {
	Id     int32  `parquet:"name=id, type=INT32"`
	Name   string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Height int32  `parquet:"name=height, type=INT32"`
	Weight int32  `parquet:"name=weight, type=INT32"`
	Sprite string `parquet:"name=sprite, type=BYTE_ARRAY, convertedtype=UTF8"`
	Color1 string `parquet:"name=color1, type=BYTE_ARRAY, convertedtype=UTF8"`
	Color2 string `parquet:"name=color2, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func ToPokemon(detail *pokeapi.PokemonDetail, color *pokeapi.PokemonColor) Pokemon {
	row := Pokemon{
		Id:     detail.Id,
		Name:   detail.Name,
		Height: detail.Height,
		Weight: detail.Weight,
		Sprite: detail.Sprites.FrontDefault,
	}
	if color != nil {
		row.Color1 = color.Color1
		row.Color2 = color.Color2
	}
	return row
}
