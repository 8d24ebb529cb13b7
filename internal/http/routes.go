package http

import (
	"matchpairs/internal/config"
	"matchpairs/internal/game"
	"matchpairs/internal/http/handlers"
	"matchpairs/internal/http/middleware"
	"matchpairs/internal/repository"
	"matchpairs/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the API, the websocket endpoint, and static
// assets. db may be nil; history endpoints then answer 503.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, db *pgxpool.Pool, manager *game.Manager, hub *ws.Hub, version string) {
	var history *repository.MatchHistoryRepository
	if db != nil {
		history = repository.NewMatchHistoryRepository(db)
	}

	h := handlers.NewHandler(manager, history)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks, no rate limiting.
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	{
		v1.POST("/auth", middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow), h.Auth)
		v1.GET("/rooms", h.Rooms)
		v1.GET("/history", h.History)
		v1.GET("/top", h.Top)
	}

	// Realtime game channel.
	r.GET("/ws", ws.HandleWS(hub, cfg.AllowedOrigin))

	// Client bundle and card images.
	r.StaticFS("/assets", gin.Dir(cfg.StaticDir, false))
	r.StaticFS("/images", gin.Dir(cfg.StaticDir+"/images", false))
	r.NoRoute(func(c *gin.Context) {
		c.File(cfg.StaticDir + "/index.html")
	})
}
