package config

import (
	"os"
	"strconv"
	"time"

	"matchpairs/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	AllowedOrigin string
	JWTSecret     string
	DatabaseURL   string // optional: empty disables match history
	StaticDir     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Game defaults, overridable per room at createRoom.
	ImagePoolSize    int
	DefaultPairCount int
	TurnSeconds      int
	RevealDelay      time.Duration

	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment (.env honored).
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./public"
	}

	cfg := &Config{
		AppPort:       port,
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		JWTSecret:     jwtSecret,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		StaticDir:     staticDir,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		ImagePoolSize:    envInt("IMAGE_POOL_SIZE", 45),
		DefaultPairCount: envInt("DEFAULT_PAIR_COUNT", 8),
		TurnSeconds:      envInt("TURN_SECONDS", 30),
		RevealDelay:      time.Duration(envInt("REVEAL_DELAY_MS", 1000)) * time.Millisecond,

		APIRateLimit:   envInt("API_RATE_LIMIT", 10),
		APIRateWindow:  time.Duration(envInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: time.Duration(envInt("AUTH_RATE_WINDOW_SECONDS", 60)) * time.Second,

		LogLevel: envStr("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",
	}

	if cfg.DefaultPairCount < 1 || cfg.DefaultPairCount > cfg.ImagePoolSize {
		logger.Fatal("DEFAULT_PAIR_COUNT must fit the image pool",
			"pairs", cfg.DefaultPairCount, "pool", cfg.ImagePoolSize)
	}
	if cfg.TurnSeconds < 0 {
		logger.Fatal("TURN_SECONDS must not be negative")
	}

	return cfg
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
