// Package colors bundles the per-Pokemon styling dataset with the binary.
package colors

import "embed"

// Path is the location of the dataset inside FS.
const Path = "assets/cores-dos-pokemons.json"

//go:embed assets/cores-dos-pokemons.json
var FS embed.FS
