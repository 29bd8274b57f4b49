package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"planner/internal/common/config"
	"planner/internal/common/middleware"
	"planner/internal/planner/geometry"
	"planner/internal/planner/handlers"
	"planner/internal/planner/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Planner Service
// ============================================================

func main() {
	if err := run(); err != nil {
		slog.Error("planner stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	geometry.SetLogger(log.With(slog.String("component", "geometry")))

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		return fmt.Errorf("init db: %w", err)
	}

	opts := geometry.DefaultOptions()
	opts.MiterLimit = cfg.MiterLimit
	opts.Rooms.MaxSteps = cfg.RoomMaxSteps
	planHandler := handlers.NewPlanHandler(repo, opts, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		AppName:      "Planner Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(log))
	app.Use(middleware.CORS(cfg.AllowedOrigins))

	// ============================================================
	// Routes
	// ============================================================

	planHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("starting planner service",
		slog.String("addr", addr),
		slog.String("env", cfg.Environment),
		slog.String("db", cfg.DBPath))

	return app.Listen(addr)
}
