package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matchpairs/internal/config"
	"matchpairs/internal/db"
	"matchpairs/internal/game"
	httpServer "matchpairs/internal/http"
	"matchpairs/internal/http/middleware"
	"matchpairs/internal/logger"
	"matchpairs/internal/repository"
	"matchpairs/internal/service"
	"matchpairs/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT()

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool = db.Connect(cfg.DatabaseURL)
		defer pool.Close()
	} else {
		logger.Info("DATABASE_URL not set, match history disabled")
	}

	r := gin.Default()

	// CORS for a frontend served from a different origin.
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || cfg.AllowedOrigin == origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hub := ws.NewHub()
	manager := game.NewManager(
		game.NewRegistry(),
		game.NewDealer(game.ImagePool(cfg.ImagePoolSize)),
		hub,
		game.Config{
			DefaultPairCount: cfg.DefaultPairCount,
			TurnSeconds:      cfg.TurnSeconds,
			RevealDelay:      cfg.RevealDelay,
			MaxPairs:         cfg.ImagePoolSize,
		},
	)
	hub.SetManager(manager)
	if pool != nil {
		manager.SetHistory(repository.NewMatchHistoryRepository(pool))
	}

	httpServer.RegisterRoutes(r, cfg, pool, manager, hub, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
