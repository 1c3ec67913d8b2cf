package csv

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BielosX/wombat/pokedex/src/parquet"
)

func TestPokemonWriter(t *testing.T) {
	w := NewPokemonWriter()
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(parquet.Pokemon{
		Id:     25,
		Name:   "pikachu",
		Height: 4,
		Weight: 60,
		Sprite: "https://img/25.png",
		Color1: "#FFFF00",
		Color2: "#8B4513",
	}))
	require.NoError(t, w.Write(parquet.Pokemon{Id: 122, Name: "mr-mime", Height: 13, Weight: 545}))
	require.NoError(t, w.Finish())

	content, err := io.ReadAll(w.BufferReader())
	require.NoError(t, err)
	assert.Equal(t, "id,name,height,weight,sprite,color1,color2\n"+
		"25,pikachu,4,60,https://img/25.png,#FFFF00,#8B4513\n"+
		"122,mr-mime,13,545,,,\n", string(content))
	assert.Equal(t, len(content), w.Size())
}

func TestPokemonWriterGrowsPastInitialCapacity(t *testing.T) {
	w := NewPokemonWriter()
	require.NoError(t, w.WriteHeader())
	sprite := strings.Repeat("x", 1024)
	rows := InitialCapacity/len(sprite) + 10
	for i := 0; i < rows; i++ {
		require.NoError(t, w.Write(parquet.Pokemon{Id: int32(i), Name: "ditto", Sprite: sprite}))
	}
	require.NoError(t, w.Finish())
	assert.Greater(t, w.Size(), InitialCapacity)

	content, err := io.ReadAll(w.BufferReader())
	require.NoError(t, err)
	assert.Len(t, content, w.Size())
	assert.True(t, strings.HasPrefix(string(content), "id,name,height,weight,sprite,color1,color2\n0,ditto,"))
}
