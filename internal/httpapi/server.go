package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"songfinder/internal/catalog"
	"songfinder/internal/logging"
)

// SongService coordinates catalog read operations.
type SongService interface {
	List(ctx context.Context) ([]catalog.Song, error)
	Search(ctx context.Context, term string, genres []string) ([]catalog.Song, error)
}

// Pinger reports whether the backing database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

const msgNotReady = "Banco de dados indisponível"

// Server wires HTTP handlers to the underlying services.
type Server struct {
	songs SongService
	db    Pinger
}

// New configures a Server with the given song service.
func New(songs SongService) *Server {
	return &Server{songs: songs}
}

// WithReadiness enables GET /ready backed by db.
func (s *Server) WithReadiness(db Pinger) *Server {
	s.db = db
	return s
}

// Routes exposes the catalog HTTP handlers. Cross-cutting middleware is
// applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.db != nil {
		r.Get("/ready", s.handleReady)
	}

	r.Route("/api/songs", func(r chi.Router) {
		r.Get("/", s.handleSongs)
		r.Get("/search", s.handleSearch)
	})

	return r
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, msgNotReady, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError logs cause and sends only message to the caller.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string, cause error) {
	if cause != nil {
		logging.WithContext(r.Context()).Error().
			Err(cause).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg(message)
	}
	writeJSON(w, status, errorResponse{Error: message})
}
