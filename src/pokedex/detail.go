package pokedex

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/BielosX/wombat/pokedex/src/future"
	"github.com/BielosX/wombat/pokedex/src/pokeapi"
)

const (
	MissingNameMessage = "not found in URL"
	LoadErrorMessage   = "failed to load data"
)

var ErrMissingName = errors.New("pokemon name not found in URL")

// DefaultPalette styles a detail that has no bundled color entry.
var DefaultPalette = pokeapi.PokemonColor{Color1: "#A8A878", Color2: "#6D6D4E"}

type Source interface {
	GetPokemon(ctx context.Context, name string) (*pokeapi.PokemonDetail, error)
	GetColors(ctx context.Context) ([]pokeapi.PokemonColor, error)
}

// Fetcher is everything both views need.
type Fetcher interface {
	Catalog
	Source
}

type DetailState struct {
	Detail    *pokeapi.PokemonDetail `json:"detail,omitempty"`
	Colors    *pokeapi.PokemonColor  `json:"colors,omitempty"`
	IsLoading bool                   `json:"isLoading"`
	Error     string                 `json:"error,omitempty"`
}

// Palette returns the colors to style the detail with.
func (s DetailState) Palette() (primary, secondary string) {
	if s.Colors == nil {
		return DefaultPalette.Color1, DefaultPalette.Color2
	}
	return s.Colors.Color1, s.Colors.Color2
}

type DetailView struct {
	source Source
	sugar  *zap.SugaredLogger

	mu    sync.RWMutex
	state DetailState
}

func NewDetailView(source Source, sugar *zap.SugaredLogger) *DetailView {
	return &DetailView{
		source: source,
		sugar:  sugar,
		state:  DetailState{IsLoading: true},
	}
}

// Activate loads the detail record and the color dataset concurrently and
// correlates them by name. Both must succeed. If ctx ends first the
// completion is dropped and the state stays untouched.
func (v *DetailView) Activate(ctx context.Context, name string) error {
	if name == "" {
		v.finish(DetailState{Error: MissingNameMessage})
		return ErrMissingName
	}

	details := future.Go(ctx, func(ctx context.Context) (*pokeapi.PokemonDetail, error) {
		return v.source.GetPokemon(ctx, name)
	})
	allColors := future.Go(ctx, v.source.GetColors)

	detail, colors, err := future.Join(ctx, details, allColors)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		v.sugar.Errorf("Failed to load Pokemon %s: %s", name, err)
		v.finish(DetailState{Error: LoadErrorMessage})
		return err
	}

	found := FindColor(colors, detail.Name)
	if found == nil {
		v.sugar.Debugf("No colors for Pokemon %s", detail.Name)
	}
	v.finish(DetailState{Detail: detail, Colors: found})
	return nil
}

func (v *DetailView) finish(state DetailState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	state.IsLoading = false
	v.state = state
}

func (v *DetailView) State() DetailState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}
