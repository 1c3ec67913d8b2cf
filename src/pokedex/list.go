package pokedex

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BielosX/wombat/pokedex/src/loading"
	"github.com/BielosX/wombat/pokedex/src/pokeapi"
)

// DefaultDisplayFloor keeps the loading indicator visible long enough to be noticed.
const DefaultDisplayFloor = time.Second

const ListErrorMessage = "failed to load list"

type Catalog interface {
	ListPokemons(ctx context.Context) (*pokeapi.ListPage, error)
}

type ListStatus int

const (
	ListLoading ListStatus = iota
	ListReady
	ListFailed
)

func (s ListStatus) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListReady:
		return "ready"
	case ListFailed:
		return "failed"
	}
	return fmt.Sprintf("ListStatus(%d)", int(s))
}

func (s ListStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type ListState struct {
	Status ListStatus              `json:"status"`
	Term   string                  `json:"term"`
	Total  int                     `json:"total"`
	Items  []pokeapi.PokemonResult `json:"items"`
	Error  string                  `json:"error,omitempty"`
}

type ListView struct {
	catalog      Catalog
	loading      *loading.State
	displayFloor time.Duration
	sugar        *zap.SugaredLogger

	mu     sync.RWMutex
	status ListStatus
	list   []pokeapi.PokemonResult
	term   string
	err    string
}

func NewListView(catalog Catalog, loadingState *loading.State, displayFloor time.Duration, sugar *zap.SugaredLogger) *ListView {
	return &ListView{
		catalog:      catalog,
		loading:      loadingState,
		displayFloor: displayFloor,
		sugar:        sugar,
		status:       ListLoading,
	}
}

// Activate fetches the catalog. The loading flag is released immediately on
// failure and after the display floor on success.
func (v *ListView) Activate(ctx context.Context) error {
	token := v.loading.Begin()
	page, err := v.catalog.ListPokemons(ctx)
	if ctx.Err() != nil {
		token.Clear()
		return ctx.Err()
	}
	if err != nil {
		token.Clear()
		v.sugar.Errorf("Failed to fetch Pokemon list: %s", err)
		v.mu.Lock()
		v.status = ListFailed
		v.err = ListErrorMessage
		v.mu.Unlock()
		return fmt.Errorf("list pokemons: %w", err)
	}
	v.sugar.Infof("Got %d Pokemon results", len(page.Results))
	v.mu.Lock()
	v.status = ListReady
	v.list = page.Results
	v.mu.Unlock()
	token.ClearAfter(v.displayFloor)
	return nil
}

// OnSearch replaces the search term on every input change.
func (v *ListView) OnSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.term = term
}

func (v *ListView) Filtered() []pokeapi.PokemonResult {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Filter(v.list, v.term)
}

func (v *ListView) Snapshot() ListState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	items := Filter(v.list, v.term)
	if items == nil {
		items = []pokeapi.PokemonResult{}
	}
	return ListState{
		Status: v.status,
		Term:   v.term,
		Total:  len(v.list),
		Items:  items,
		Error:  v.err,
	}
}
