// Package ops exposes a small admin HTTP surface: liveness and per-user
// usage counts. It reads from the usage log only and shares no state with
// the dispatcher.
package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rapidfileconvert/convertbot/internal/observability"
)

// UsageReader is the read-only slice of the usage repository the ops server
// needs.
type UsageReader interface {
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

// Server is the admin HTTP server.
type Server struct {
	usage  UsageReader
	logger *observability.Logger
}

// NewServer creates the ops server.
func NewServer(usage UsageReader, logger *observability.Logger) *Server {
	return &Server{
		usage:  usage,
		logger: logger.WithComponent("ops"),
	}
}

// Router builds the chi router for the admin surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/usage/{userID}", s.handleUsage)

	return r
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	count, err := s.usage.CountByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error().Int64("user_id", userID).Err(err).Msg("Usage count query failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user_id": userID,
		"count":   count,
	})
}
