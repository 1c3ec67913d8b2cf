package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BielosX/wombat/pokedex/src/colors"
	"github.com/BielosX/wombat/pokedex/src/loading"
	"github.com/BielosX/wombat/pokedex/src/pokeapi"
	"github.com/BielosX/wombat/pokedex/src/pokedex"
)

type stubFetcher struct {
	listErr   error
	detailErr error
	colorsErr error
	calls     atomic.Int32
}

var catalog = []pokeapi.PokemonResult{
	{Name: "bulbasaur", Url: "https://pokeapi.co/api/v2/pokemon/1/"},
	{Name: "pikachu", Url: "https://pokeapi.co/api/v2/pokemon/25/"},
	{Name: "raichu", Url: "https://pokeapi.co/api/v2/pokemon/26/"},
	{Name: "mew", Url: "https://pokeapi.co/api/v2/pokemon/151/"},
}

func (f *stubFetcher) ListPokemons(ctx context.Context) (*pokeapi.ListPage, error) {
	f.calls.Add(1)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &pokeapi.ListPage{Count: len(catalog), Results: catalog}, nil
}

func (f *stubFetcher) GetPokemon(ctx context.Context, name string) (*pokeapi.PokemonDetail, error) {
	f.calls.Add(1)
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	for _, pokemon := range catalog {
		if pokemon.Name == name {
			id, err := strconv.Atoi(path.Base(strings.TrimSuffix(pokemon.Url, "/")))
			if err != nil {
				return nil, err
			}
			return &pokeapi.PokemonDetail{Id: int32(id), Name: name, Height: 4, Weight: 60}, nil
		}
	}
	return nil, &pokeapi.StatusError{Url: name, StatusCode: http.StatusNotFound}
}

func (f *stubFetcher) GetColors(ctx context.Context) ([]pokeapi.PokemonColor, error) {
	f.calls.Add(1)
	if f.colorsErr != nil {
		return nil, f.colorsErr
	}
	return []pokeapi.PokemonColor{{Name: "pikachu", Color1: "#FFFF00", Color2: "#8B4513"}}, nil
}

func newTestServer(fetcher *stubFetcher, state *loading.State) *Server {
	return New(fetcher, state, 50*time.Millisecond, colors.FS, zap.NewNop().Sugar())
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRootRedirectsToList(t *testing.T) {
	rec := get(t, newTestServer(&stubFetcher{}, loading.New(false)), "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/list", rec.Header().Get("Location"))
}

func TestListPage(t *testing.T) {
	state := loading.New(false)
	rec := get(t, newTestServer(&stubFetcher{}, state), "/list?q=CHU")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `href="/detail/pikachu"`)
	assert.Contains(t, body, `href="/detail/raichu"`)
	assert.NotContains(t, body, "bulbasaur")
	assert.Contains(t, body, "2 of 4")
	assert.Contains(t, body, `<div id="loading">`)
	assert.True(t, state.IsLoading())
	require.Eventually(t, func() bool { return !state.IsLoading() }, time.Second, 5*time.Millisecond)
}

func TestListPageFailure(t *testing.T) {
	state := loading.New(true)
	rec := get(t, newTestServer(&stubFetcher{listErr: errors.New("boom")}, state), "/list")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), pokedex.ListErrorMessage)
	assert.False(t, state.IsLoading())
}

func TestDetailPageWithColors(t *testing.T) {
	rec := get(t, newTestServer(&stubFetcher{}, loading.New(false)), "/detail/pikachu")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "#25 pikachu")
	assert.Contains(t, body, "#FFFF00")
	assert.Contains(t, body, "#8B4513")
}

func TestDetailPageDefaultPalette(t *testing.T) {
	rec := get(t, newTestServer(&stubFetcher{}, loading.New(false)), "/detail/mew")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), pokedex.DefaultPalette.Color1)
	assert.NotContains(t, rec.Body.String(), pokedex.LoadErrorMessage)
}

func TestDetailPageWithoutName(t *testing.T) {
	fetcher := &stubFetcher{}
	srv := newTestServer(fetcher, loading.New(false))

	for _, path := range []string{"/detail", "/detail/"} {
		rec := get(t, srv, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), pokedex.MissingNameMessage, path)
	}
	assert.Zero(t, fetcher.calls.Load())
}

func TestDetailPageFailure(t *testing.T) {
	rec := get(t, newTestServer(&stubFetcher{colorsErr: errors.New("boom")}, loading.New(false)), "/detail/pikachu")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), pokedex.LoadErrorMessage)
	assert.NotContains(t, rec.Body.String(), "#25 pikachu")
}

func TestListAPI(t *testing.T) {
	rec := get(t, newTestServer(&stubFetcher{}, loading.New(false)), "/api/pokemon?q=mew")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string                  `json:"status"`
		Term   string                  `json:"term"`
		Total  int                     `json:"total"`
		Items  []pokeapi.PokemonResult `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, "mew", body.Term)
	assert.Equal(t, 4, body.Total)
	assert.Equal(t, []pokeapi.PokemonResult{catalog[3]}, body.Items)
}

func TestDetailAPI(t *testing.T) {
	srv := newTestServer(&stubFetcher{}, loading.New(false))

	rec := get(t, srv, "/api/pokemon/pikachu")
	require.Equal(t, http.StatusOK, rec.Code)
	var state pokedex.DetailState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.False(t, state.IsLoading)
	require.NotNil(t, state.Detail)
	assert.Equal(t, "pikachu", state.Detail.Name)
	assert.Equal(t, int32(25), state.Detail.Id)
	assert.Equal(t, &pokeapi.PokemonColor{Name: "pikachu", Color1: "#FFFF00", Color2: "#8B4513"}, state.Colors)

	rec = get(t, srv, "/api/pokemon/missingno")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, pokedex.LoadErrorMessage, state.Error)
}

func TestLoadingAPI(t *testing.T) {
	state := loading.New(true)
	srv := newTestServer(&stubFetcher{}, state)

	rec := get(t, srv, "/api/loading")
	assert.JSONEq(t, `{"isLoading":true}`, rec.Body.String())

	state.Begin().Clear()
	rec = get(t, srv, "/api/loading")
	assert.JSONEq(t, `{"isLoading":false}`, rec.Body.String())
}

func TestColorAsset(t *testing.T) {
	rec := get(t, newTestServer(&stubFetcher{}, loading.New(false)), "/assets/cores-dos-pokemons.json")

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []pokeapi.PokemonColor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Contains(t, entries, pokeapi.PokemonColor{Name: "pikachu", Color1: "#FFFF00", Color2: "#8B4513"})
}

func TestColorAssetThroughClient(t *testing.T) {
	srv := httptest.NewServer(newTestServer(&stubFetcher{}, loading.New(false)))
	defer srv.Close()
	client := pokeapi.NewClient(zap.NewNop().Sugar(), pokeapi.WithColorsUrl(srv.URL+"/assets/cores-dos-pokemons.json"))

	entries, err := client.GetColors(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, pokedex.FindColor(entries, "pikachu"))
	assert.Nil(t, pokedex.FindColor(entries, "mew"))
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(&stubFetcher{}, loading.New(false)), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
