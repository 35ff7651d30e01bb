package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/tournament-stats-service/internal/config"
	"github.com/maxviazov/tournament-stats-service/internal/service"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// APIV1Prefix is the canonical base path for public HTTP API v1.
const APIV1Prefix = "/api/v1"

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Teams        service.TeamService
	Coaches      service.CoachService
	Players      service.PlayerService
	Matches      service.MatchService
	MatchPlayers service.MatchPlayerService
}

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, pinger Pinger, svc Services) {
	h := NewHealthHandler(pinger)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewTeamHandler(svc.Teams).Register(api)
		NewPlayerHandler(svc.Players).Register(api)
		NewCoachHandler(svc.Coaches).Register(api)
		NewMatchHandler(svc.Matches, svc.MatchPlayers).Register(api)
	}
}

// NewEngine builds the gin engine with recovery, access logging and write rate limiting.
func NewEngine(logger zerolog.Logger, cfg config.HTTPConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(RateLimit(cfg.WriteRPS, cfg.WriteBurst))
	return r
}

// NewHTTPHandler wraps the router with CORS handling for the configured origins.
// An empty origin list disables CORS headers entirely.
func NewHTTPHandler(h http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return h
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           600,
	})
	return c.Handler(h)
}
