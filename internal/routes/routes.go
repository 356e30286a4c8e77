package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sango-bank/sango_bank/internal/auth"
	"github.com/sango-bank/sango_bank/internal/bank"
	"github.com/sango-bank/sango_bank/internal/config"
	"github.com/sango-bank/sango_bank/internal/identity"
	"github.com/sango-bank/sango_bank/internal/middleware"
	"github.com/sango-bank/sango_bank/internal/notification"
)

const mutationsPerMinute = 30

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Ledger *bank.Ledger
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}
	if d.Ledger == nil {
		return fmt.Errorf("ledger is required")
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var operatorRepo identity.Repository
	if d.DB != nil {
		operatorRepo = identity.NewPostgresRepository(d.DB)
	} else {
		operatorRepo = identity.NewMemoryRepository()
	}
	operatorSvc := identity.NewService(operatorRepo)
	authSvc := auth.NewService(d.Cfg, operatorRepo)
	authHandler := auth.NewHandler(operatorSvc, authSvc)

	notifier := notification.NewLoggerNotifier(d.Logger)
	accountHandler := bank.NewHandler(d.Ledger, notifier)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals(middleware.RequestIDKey).(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterOperatorRoutes(api, operatorSvc)
	loginLimiter := middleware.RateLimit(d.Cache, "login", 5, nil)
	RegisterAuthRoutes(api, authHandler, loginLimiter)

	// Ledger queries are public; mutations require an operator token and are
	// throttled per account.
	jwtmw := middleware.JWTAuth(d.Cfg, operatorRepo)
	protected := api.Group("", jwtmw)
	protected.Post("/auth/logout", authHandler.Logout)

	mutationLimiter := middleware.RateLimit(d.Cache, "ledger", mutationsPerMinute, middleware.AccountParamKey)
	RegisterAccountRoutes(api, protected, accountHandler, mutationLimiter)

	return nil
}
