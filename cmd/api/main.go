package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"leavedocs/internal/config"
	"leavedocs/internal/database"
	"leavedocs/internal/database/migration"
	handlers "leavedocs/internal/http/handler"
	"leavedocs/internal/http/middleware"
	"leavedocs/internal/logging"
	"leavedocs/internal/otel"
	"leavedocs/internal/repository/postgres"
	"leavedocs/internal/service"
	"leavedocs/internal/storage"
)

// @title Leave Documents API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Location)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Error("failed to initialize tracing", "error", err.Error())
		os.Exit(1)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error("tracing shutdown failed", "error", err.Error())
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		os.Exit(1)
	}

	mediaStore, err := storage.NewMinIO(ctx, cfg.Media)
	if err != nil {
		log.Error("failed to initialize media store", "error", err.Error())
		os.Exit(1)
	}

	docSvc := service.NewDocumentService(
		mediaStore,
		postgres.NewDocumentPostgres(db),
		postgres.NewLeaveRequestPostgres(db),
		service.Config{
			MediaFolder:             cfg.Media.Folder,
			CleanupOnPersistFailure: cfg.Media.CleanupOnPersistFailure,
		},
		log,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Error("failed to register metrics", "error", err.Error())
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, docSvc, []byte(cfg.Auth.JWTSecret), reg)

	app.Get("/swagger/*", handlers.Swagger(cfg.AppHost))

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.Error("server shutdown failed", "error", err.Error())
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server starting", "addr", addr, "media_folder", cfg.Media.Folder)
	if err := app.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("failed to start server", "error", err.Error())
		os.Exit(1)
	}
}
