package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yourusername/oddsboard/internal/config"
	"github.com/yourusername/oddsboard/internal/metrics"
)

// NewRouter assembles the HTTP surface: the board API, the websocket
// endpoint, and the metrics handler when enabled.
func NewRouter(cfg *config.Config, h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/leagues", h.GetLeagues)
		r.Get("/board", h.GetBoard)
		r.Post("/board/refresh", h.RefreshBoard)
		r.Get("/schedule", h.GetSchedule)
		r.Get("/odds", h.GetOdds)
	})

	r.Get("/ws", h.ServeWS)

	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	return r
}
