package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sango-bank/sango_bank/internal/bank"
	"github.com/sango-bank/sango_bank/internal/config"
	"github.com/sango-bank/sango_bank/internal/routes"
)

// Server wraps the fiber application and its dependencies.
type Server struct {
	app *fiber.App
	cfg config.Config
}

// New builds the HTTP server with all routes and middlewares wired.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, ledger *bank.Ledger, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: !cfg.IsDev(),
	})

	if err := routes.Setup(app, routes.Deps{
		Cfg:    cfg,
		DB:     db,
		Cache:  cache,
		Ledger: ledger,
		Logger: logger,
	}); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg}, nil
}

// Listen blocks serving HTTP until the listener fails or is shut down.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully drains in-flight requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
