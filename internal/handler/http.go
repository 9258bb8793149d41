package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/obstacle-ladder/internal/domain"
)

// StandingsSource serves the latest cached ladder standings
type StandingsSource interface {
	GetMeta(ctx context.Context) (*domain.LadderMeta, error)
	TopPlayers(ctx context.Context, n int) ([]domain.LadderEntry, error)
	TopMaps(ctx context.Context, n int) ([]domain.LadderEntry, error)
	PlayerRank(ctx context.Context, playerID int64) (*domain.LadderEntry, error)
}

// Handler provides read-only HTTP access to the computed standings
type Handler struct {
	standings StandingsSource
	logger    *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(standings StandingsSource, logger *slog.Logger) *Handler {
	return &Handler{
		standings: standings,
		logger:    logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", h.HealthCheck)

	// API v1 routes
	r.Route("/api/v1/ladder", func(r chi.Router) {
		r.Get("/meta", h.GetMeta)
		r.Get("/players", h.GetTopPlayers)
		r.Get("/maps", h.GetTopMaps)
		r.Get("/players/{playerID}", h.GetPlayerRank)
	})

	return r
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "healthy"})
}

// GetMeta returns metadata about the cached ladder run
func (h *Handler) GetMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.standings.GetMeta(r.Context())
	if err != nil {
		if err == domain.ErrNoStandings {
			h.writeError(w, http.StatusNotFound, err)
			return
		}
		h.logger.Error("failed to get ladder meta", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
		return
	}

	h.writeSuccess(w, meta)
}

// GetTopPlayers returns the top N players of the ladder
func (h *Handler) GetTopPlayers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.standings.TopPlayers(r.Context(), limitParam(r))
	if err != nil {
		h.logger.Error("failed to get top players", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
		return
	}

	h.writeSuccess(w, entries)
}

// GetTopMaps returns the top N maps of the ladder
func (h *Handler) GetTopMaps(w http.ResponseWriter, r *http.Request) {
	entries, err := h.standings.TopMaps(r.Context(), limitParam(r))
	if err != nil {
		h.logger.Error("failed to get top maps", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
		return
	}

	h.writeSuccess(w, entries)
}

// GetPlayerRank returns a single player's ladder position
func (h *Handler) GetPlayerRank(w http.ResponseWriter, r *http.Request) {
	playerID, err := strconv.ParseInt(chi.URLParam(r, "playerID"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	entry, err := h.standings.PlayerRank(r.Context(), playerID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			h.writeError(w, http.StatusNotFound, err)
			return
		}
		h.logger.Error("failed to get player rank", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
		return
	}

	h.writeSuccess(w, entry)
}

// limitParam parses the optional limit query parameter
func limitParam(r *http.Request) int {
	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	return limit
}
