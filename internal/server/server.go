package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitbite/backend/config"
	"github.com/fitbite/backend/internal/api"
	"github.com/fitbite/backend/internal/database"
	"github.com/fitbite/backend/internal/router"
	"github.com/fitbite/backend/internal/service"
)

// Server owns the HTTP listener and the external clients it hands to the
// API layer.
type Server struct {
	cfg   *config.Config
	http  *http.Server
	redis *redis.Client
}

// New connects the database and optional clients, runs migrations, and
// builds the HTTP server. Redis, S3 and Gemini failures are logged and
// degrade their features rather than aborting startup.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	deps := api.Deps{}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting and AI caching disabled: %v", err)
	} else {
		deps.Redis = redisClient
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := service.NewGeminiService(deps.Redis)
		if err != nil {
			log.Printf("Gemini unavailable, AI features disabled: %v", err)
		} else {
			deps.Gemini = gemini
		}
	} else {
		log.Printf("GEMINI_API_KEY not set, AI features disabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s3cfg, err := config.NewS3Config(ctx)
	if err != nil {
		log.Printf("S3 unavailable, meal photo storage disabled: %v", err)
	} else {
		deps.S3 = s3cfg
	}

	engine := router.SetupRouter(db, cfg.JWTSecret, deps)

	return &Server{
		cfg:   cfg,
		redis: deps.Redis,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}, nil
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("Redis close error: %v", err)
		}
	}
	return s.http.Shutdown(ctx)
}
