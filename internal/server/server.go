// Package server exposes the engine's command surface over HTTP. It
// translates JSON requests into engine calls and engine errors into
// status codes; no scheduling or tree logic lives here.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/ckuhn/cardbox/internal/engine"
	"github.com/ckuhn/cardbox/internal/store"
)

// Server is the cardbox HTTP API server.
type Server struct {
	db       *store.DB
	engine   *engine.Engine
	router   chi.Router
	validate *validator.Validate
	version  string
	started  time.Time
}

// New creates a new Server over the given database and engine.
func New(db *store.DB, eng *engine.Engine, version string) *Server {
	s := &Server{
		db:       db,
		engine:   eng,
		validate: validator.New(),
		version:  version,
		started:  time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/decks", func(r chi.Router) {
			r.Get("/", s.handleListDecks)
			r.Post("/", s.handleCreateDeck)
			r.Get("/outline", s.handleOutline)
			r.Route("/{deckID}", func(r chi.Router) {
				r.Get("/", s.handleGetDeck)
				r.Patch("/", s.handleRenameDeck)
				r.Delete("/", s.handleDeleteDeck)
				r.Post("/move", s.handleMoveDeck)
				r.Get("/path", s.handleDeckPath)
				r.Get("/subtree", s.handleDeckSubtree)
				r.Post("/reset", s.handleResetDeck)
				r.Post("/reviewed", s.handleDeckReviewed)
			})
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.handleListCards)
			r.Post("/", s.handleCreateCard)
			r.Get("/due", s.handleDueCards)
			r.Route("/{cardID}", func(r chi.Router) {
				r.Get("/", s.handleGetCard)
				r.Patch("/", s.handleUpdateCard)
				r.Delete("/", s.handleDeleteCard)
				r.Post("/move", s.handleMoveCard)
				r.Post("/duplicate", s.handleDuplicateCard)
				r.Post("/reset", s.handleResetCard)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", s.handleListReviews)
			r.Post("/", s.handleSubmitReview)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrCycle):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrStoreBusy):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decode reads a JSON body into req and runs struct validation.
func (s *Server) decode(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return errors.New("invalid json")
	}
	return s.validate.Struct(req)
}
