package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/battle-system/brackets"
	"github.com/Dosada05/battle-system/cache"
	"github.com/Dosada05/battle-system/config"
	"github.com/Dosada05/battle-system/db"
	"github.com/Dosada05/battle-system/handlers"
	"github.com/Dosada05/battle-system/metrics"
	"github.com/Dosada05/battle-system/middleware"
	"github.com/Dosada05/battle-system/repositories"
	api "github.com/Dosada05/battle-system/routes"
	"github.com/Dosada05/battle-system/services"
	"github.com/Dosada05/battle-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

const (
	tournamentCacheTTL   = time.Minute
	limiterCleanupPeriod = time.Minute
	limiterIdleTimeout   = 3 * time.Minute
	shutdownTimeout      = 15 * time.Second
)

// @title Battle System API
// @version 1.0
// @description Турнирная сетка танцевальных баттлов на 16 участников.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	handlers.SetLogger(logger)

	app := &cli.App{
		Name:  "battle-system",
		Usage: "dance battle bracket server",
		Commands: []*cli.Command{
			newServeCommand(logger),
			newMigrateCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newServeCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the HTTP server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "apply pending migrations before start",
			},
		},
		Action: func(c *cli.Context) error {
			return serve(c.Context, logger, c.Bool("migrate"))
		},
	}
}

func newMigrateCommand(logger *slog.Logger) *cli.Command {
	withDB := func(action func(ctx context.Context, conn *sql.DB) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			conn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := conn.Close(); err != nil {
					logger.Error("failed to close database connection", slog.Any("error", err))
				}
			}()
			return action(c.Context, conn)
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withDB(func(ctx context.Context, conn *sql.DB) error {
					if err := db.MigrateUp(ctx, conn); err != nil {
						return err
					}
					logger.Info("migrations applied")
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "roll back the last migration",
				Action: withDB(func(ctx context.Context, conn *sql.DB) error {
					if err := db.MigrateDown(ctx, conn); err != nil {
						return err
					}
					logger.Info("last migration rolled back")
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withDB(func(ctx context.Context, conn *sql.DB) error {
					return db.MigrationStatus(ctx, conn)
				}),
			},
		},
	}
}

func serve(ctx context.Context, logger *slog.Logger, migrate bool) error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if migrate {
		if err := db.MigrateUp(ctx, dbConn); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheusRecorder(registry)

	// Кеш турнира (опционально)
	var tournamentCache services.TournamentCache = services.NewNoopTournamentCache()
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("failed to close redis client", slog.Any("error", err))
			}
		}()
		tournamentCache = cache.NewTournamentCache(redisClient, tournamentCacheTTL)
		logger.Info("redis tournament cache enabled")
	}

	// Архив сетки в Cloudflare R2 (опционально)
	var archiver storage.BracketArchiver
	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Config.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, r2Config)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		archiver = storage.NewBracketArchiver(uploader, "")
		logger.Info("Cloudflare R2 bracket archive enabled")
	}

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	battleRepo := repositories.NewPostgresBattleRepository(dbConn)
	scoreRepo := repositories.NewPostgresScoreRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	locks := services.NewBracketLocks()
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, logger)
	bracketService := services.NewBracketService(services.BracketServiceDeps{
		DB:              dbConn,
		EventRepo:       eventRepo,
		BattleRepo:      battleRepo,
		ScoreRepo:       scoreRepo,
		ParticipantRepo: participantRepo,
		Generator:       brackets.NewSingleEliminationGenerator(nil),
		Locks:           locks,
		Cache:           tournamentCache,
		Archiver:        archiver,
		Metrics:         recorder,
		Logger:          logger,
	})
	battleService := services.NewBattleService(services.BattleServiceDeps{
		DB:              dbConn,
		EventRepo:       eventRepo,
		BattleRepo:      battleRepo,
		ScoreRepo:       scoreRepo,
		ParticipantRepo: participantRepo,
		UserRepo:        userRepo,
		Judges:          userService,
		Locks:           locks,
		Cache:           tournamentCache,
		Metrics:         recorder,
		Logger:          logger,
	})
	participantService := services.NewParticipantService(participantRepo, tournamentCache, recorder, logger)
	logger.Info("services initialized")

	if cfg.AdminNickname != "" {
		admin, err := userService.EnsureAdmin(ctx, cfg.AdminNickname, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
		logger.Info("admin account ready", slog.Int("user_id", admin.ID), slog.String("nickname", admin.Nickname))
	}

	loginLimiter := middleware.NewLoginRateLimiter()
	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	go func() {
		ticker := time.NewTicker(limiterCleanupPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-limiterCtx.Done():
				return
			case <-ticker.C:
				if removed := loginLimiter.Cleanup(limiterIdleTimeout); removed > 0 {
					logger.Debug("login limiter cleanup", slog.Int("removed", removed))
				}
			}
		}
	}()

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		LoginLimiter:   loginLimiter,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, api.Handlers{
		Auth:        handlers.NewAuthHandler(authService, cfg.JWTSecretKey, cfg.JWTTTL),
		User:        handlers.NewUserHandler(userService),
		Tournament:  handlers.NewTournamentHandler(bracketService),
		Battle:      handlers.NewBattleHandler(bracketService, battleService),
		Participant: handlers.NewParticipantHandler(participantService),
	})
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
	return nil
}
