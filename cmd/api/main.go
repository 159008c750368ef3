package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpAdapter "github.com/lcrommet/glpi-insight-backend/internal/adapters/primary/http"
	mw "github.com/lcrommet/glpi-insight-backend/internal/adapters/primary/http/middleware"
	"github.com/lcrommet/glpi-insight-backend/internal/adapters/secondary/appdb"
	"github.com/lcrommet/glpi-insight-backend/internal/adapters/secondary/directory"
	"github.com/lcrommet/glpi-insight-backend/internal/adapters/secondary/glpi"
	"github.com/lcrommet/glpi-insight-backend/internal/adapters/secondary/rediscache"
	"github.com/lcrommet/glpi-insight-backend/internal/auth"
	"github.com/lcrommet/glpi-insight-backend/internal/config"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
	"github.com/lcrommet/glpi-insight-backend/internal/core/services"
	"github.com/lcrommet/glpi-insight-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	ctx := context.Background()

	// 3. Initialize Database Pools
	appPool, err := newPool(ctx, cfg.AppDB)
	if err != nil {
		logger.Error("failed to connect to app database", "error", err)
		os.Exit(1)
	}
	defer appPool.Close()

	glpiPool, err := newPool(ctx, cfg.GlpiDB)
	if err != nil {
		logger.Error("failed to connect to GLPI mirror", "error", err)
		os.Exit(1)
	}
	defer glpiPool.Close()

	logger.Info("database connections established")

	// 4. Apply app-store migrations
	if err := runMigrations(cfg.AppDB.URL); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 5. Initialize Report Cache
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, report cache disabled", "error", err)
			redisClient = nil
		}
	}

	// 6. Security Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	// 7. Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 8. Dependency Injection (Wiring the Hexagon)

	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Secondary adapters
	configStore := appdb.NewConfigStore(appPool)
	userRepo := appdb.NewUserRepository(appPool)
	ticketSource := glpi.NewTicketSource(glpiPool)
	statusLogSource := glpi.NewStatusLogSource(glpiPool, logger)
	technicianSource := glpi.NewTechnicianSource(glpiPool)
	ldapAuthenticator := directory.NewLdapAuthenticator(logger)

	// Core services
	settingsService := services.NewSettingsService(configStore, logger)
	resolutionService := services.NewResolutionService(ticketSource, statusLogSource, settingsService, logger)
	slaService := services.NewSlaService(ticketSource, statusLogSource, configStore, settingsService, logger)
	ticketStatsService := services.NewTicketStatsService(ticketSource)
	technicianService := services.NewTechnicianService(technicianSource)
	authService := services.NewAuthService(userRepo, ldapAuthenticator, settingsService, logger)
	setupService := services.NewSetupService(userRepo, configStore, settingsService)
	adminService := services.NewAdminService(userRepo)

	// Primary adapters
	cache := httpAdapter.NewReportCache(redisReportCache(redisClient), cfg.Cache.TTL, logger)
	authHandler := httpAdapter.NewAuthHandler(authService, tokenManager, errorHandler, logger)
	setupHandler := httpAdapter.NewSetupHandler(setupService, errorHandler, logger)
	adminHandler := httpAdapter.NewAdminHandler(adminService, errorHandler, logger)
	resolutionHandler := httpAdapter.NewResolutionHandler(resolutionService, cache, errorHandler, logger)
	slaHandler := httpAdapter.NewSlaHandler(slaService, cache, errorHandler, logger)
	ticketStatsHandler := httpAdapter.NewTicketStatsHandler(ticketStatsService, cache, errorHandler, logger)
	technicianHandler := httpAdapter.NewTechnicianHandler(technicianService, cache, errorHandler, logger)
	healthHandler := httpAdapter.NewHealthHandler(appPool, glpiPool, redisChecker(redisClient), cfg.App.Version)

	// 9. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Route("/auth", authHandler.RegisterRoutes)
			r.Route("/setup", setupHandler.RegisterRoutes)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))

			r.Route("/auth/session", authHandler.RegisterProtectedRoutes)
			r.Route("/tickets", ticketStatsHandler.RegisterRoutes)
			r.Route("/technicians", technicianHandler.RegisterRoutes)
			r.Route("/reports/resolution", resolutionHandler.RegisterRoutes)
			r.Route("/reports/sla", slaHandler.RegisterRoutes)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)
				r.Route("/admin", adminHandler.RegisterRoutes)
				r.Route("/admin/sla", slaHandler.RegisterAdminRoutes)
			})
		})
	})

	// 10. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("server stopped")
}

// newPool builds a pgx pool from one database config.
func newPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// runMigrations applies the app-store schema.
func runMigrations(databaseURL string) error {
	mig, err := migrate.New("file://migrations", databaseURL)
	if err != nil {
		return err
	}
	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// redisReportCache wraps the client as a report cache, nil-safe.
func redisReportCache(client *redis.Client) ports.ReportCache {
	if client == nil {
		return nil
	}
	return rediscache.NewReportCache(client)
}

// redisPinger adapts the redis client to the health checker interface.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// redisChecker is nil when the cache is disabled so the health handler
// skips the check.
func redisChecker(client *redis.Client) httpAdapter.HealthChecker {
	if client == nil {
		return nil
	}
	return redisPinger{client: client}
}
