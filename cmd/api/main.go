package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/subosito/gotenv"

	"github.com/beerlog/backend/internal/auth"
	"github.com/beerlog/backend/internal/config"
	"github.com/beerlog/backend/internal/handlers"
	"github.com/beerlog/backend/internal/repository"
	"github.com/beerlog/backend/internal/router"
	"github.com/beerlog/backend/internal/services"
)

func newLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/example.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("config load failed", "path", cfgPath, "error", err)
		os.Exit(1)
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}

	logger := newLogger(cfg.App.Env)
	slog.SetDefault(logger)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Error("unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("cannot reach PostgreSQL, is it running?", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to PostgreSQL")

	userRepo := repository.NewUserRepo(pool)
	logRepo := repository.NewBeerLogRepo(pool)
	paymentRepo := repository.NewPaymentRepo(pool)
	allocationRepo := repository.NewAllocationRepo(pool)
	settingRepo := repository.NewSettingRepo(pool)

	authSvc := auth.NewService(userRepo, cfg.Auth.JWTSecret)
	authHandler := auth.NewHandler(authSvc, logger)

	paymentSvc := services.NewPaymentService(pool, paymentRepo, logRepo, allocationRepo, userRepo, logger)
	logSvc := services.NewBeerLogService(logRepo, settingRepo, logger)
	rankingSvc := services.NewRankingService(logRepo, userRepo)

	paymentHandler := &handlers.PaymentHandler{Workflow: paymentSvc, History: paymentRepo, Logger: logger}
	logHandler := &handlers.LogHandler{Workflow: logSvc, Logger: logger}
	rankingHandler := &handlers.RankingHandler{Svc: rankingSvc, Logger: logger}
	userHandler := &handlers.UserHandler{Users: userRepo, Balances: paymentSvc, Logger: logger}
	settingHandler := &handlers.SettingHandler{Settings: settingRepo, Logger: logger}

	apiRouter := router.New(authHandler, authSvc, paymentHandler, logHandler, rankingHandler, userHandler, settingHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(apiRouter)

	if cfg.Metrics.Enabled {
		go func() {
			metricsMux := http.NewServeMux()
			metricsMux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics server started", "addr", cfg.Metrics.Addr)
			if err := http.ListenAndServe(cfg.Metrics.Addr, metricsMux); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: corsHandler}
	go func() {
		logger.Info("HTTP server started", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("graceful shutdown complete")
}
