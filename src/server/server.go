package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/BielosX/wombat/pokedex/src/loading"
	"github.com/BielosX/wombat/pokedex/src/pokedex"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server renders the catalog views. Every page request is a fresh view
// activation bound to the request context.
type Server struct {
	fetcher      pokedex.Fetcher
	loading      *loading.State
	displayFloor time.Duration
	assets       fs.FS
	sugar        *zap.SugaredLogger
	router       chi.Router
	templates    *template.Template
}

func New(fetcher pokedex.Fetcher,
	loadingState *loading.State,
	displayFloor time.Duration,
	assets fs.FS,
	sugar *zap.SugaredLogger) *Server {
	s := &Server{
		fetcher:      fetcher,
		loading:      loadingState,
		displayFloor: displayFloor,
		assets:       assets,
		sugar:        sugar,
		router:       chi.NewRouter(),
		templates:    template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.sugar))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", http.RedirectHandler("/list", http.StatusFound).ServeHTTP)
	s.router.Get("/list", s.handleListPage)
	s.router.Get("/detail", s.handleDetailPage)
	s.router.Get("/detail/", s.handleDetailPage)
	s.router.Get("/detail/{name}", s.handleDetailPage)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/pokemon", s.handleGetList)
		r.Get("/pokemon/{name}", s.handleGetDetail)
		r.Get("/loading", s.handleGetLoading)
	})

	s.router.Handle("/assets/*", http.FileServerFS(s.assets))

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func requestLogger(sugar *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				sugar.Infow("Request served",
					"requestId", middleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.sugar.Errorf("Failed to render %s: %s", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
