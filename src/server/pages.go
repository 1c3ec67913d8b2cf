package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BielosX/wombat/pokedex/src/pokedex"
)

type listPage struct {
	Title   string
	Loading bool
	State   pokedex.ListState
}

type detailPage struct {
	Title     string
	Loading   bool
	State     pokedex.DetailState
	Primary   string
	Secondary string
}

func (s *Server) activateList(r *http.Request) (pokedex.ListState, int, bool) {
	view := pokedex.NewListView(s.fetcher, s.loading, s.displayFloor, s.sugar)
	err := view.Activate(r.Context())
	if r.Context().Err() != nil {
		return pokedex.ListState{}, 0, false
	}
	view.OnSearch(r.URL.Query().Get("q"))
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	return view.Snapshot(), status, true
}

func (s *Server) activateDetail(r *http.Request) (pokedex.DetailState, int, bool) {
	view := pokedex.NewDetailView(s.fetcher, s.sugar)
	err := view.Activate(r.Context(), chi.URLParam(r, "name"))
	if r.Context().Err() != nil {
		return pokedex.DetailState{}, 0, false
	}
	status := http.StatusOK
	switch {
	case errors.Is(err, pokedex.ErrMissingName):
		status = http.StatusNotFound
	case err != nil:
		status = http.StatusBadGateway
	}
	return view.State(), status, true
}

// handleListPage renders the catalog, filtered by the q query parameter
func (s *Server) handleListPage(w http.ResponseWriter, r *http.Request) {
	state, status, ok := s.activateList(r)
	if !ok {
		return
	}
	s.render(w, status, "list.html", listPage{
		Title:   "List",
		Loading: s.loading.IsLoading(),
		State:   state,
	})
}

// handleDetailPage renders a single Pokemon styled with its bundled colors
func (s *Server) handleDetailPage(w http.ResponseWriter, r *http.Request) {
	state, status, ok := s.activateDetail(r)
	if !ok {
		return
	}
	primary, secondary := state.Palette()
	title := "Detail"
	if state.Detail != nil {
		title = state.Detail.Name
	}
	s.render(w, status, "detail.html", detailPage{
		Title:     title,
		Loading:   state.IsLoading,
		State:     state,
		Primary:   primary,
		Secondary: secondary,
	})
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	state, status, ok := s.activateList(r)
	if !ok {
		return
	}
	respondJSON(w, status, state)
}

func (s *Server) handleGetDetail(w http.ResponseWriter, r *http.Request) {
	state, status, ok := s.activateDetail(r)
	if !ok {
		return
	}
	respondJSON(w, status, state)
}

func (s *Server) handleGetLoading(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"isLoading": s.loading.IsLoading()})
}
