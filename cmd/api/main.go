package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"smart-collab/configs"
	v1 "smart-collab/internal/api/v1"
	"smart-collab/internal/config"
	"smart-collab/internal/middleware"
	"smart-collab/pkg/logger"
)

func main() {
	// Load config
	cfg := configs.LoadConfig()

	// Inisialisasi logger
	logger.InitLoggers(cfg.LogDir)
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()
	if err != nil {
		logger.ErrorLogger.Error("Application failed", zap.Error(err))
		logger.SyncLoggers()
		os.Exit(1)
	}
	logger.SyncLoggers()
}

// run serves the API until ctx is cancelled. Startup failures are returned
// so main can exit non-zero after cleanup.
func run(ctx context.Context, cfg configs.Config) error {
	deps, err := config.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising dependencies: %w", err)
	}
	defer deps.Close()

	go deps.Hub.Run(ctx)
	deps.Scheduler.Start()
	defer deps.Scheduler.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorResponder,
		BodyLimit:    int(cfg.MaxUploadBytes) + 1<<20,
	})

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: 1 * time.Minute,
	}))

	// Daftarkan route API v1
	v1.RegisterRoutes(app, deps.Handler, deps.Hub)

	go func() {
		<-ctx.Done()
		logger.SystemLogger.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.ErrorLogger.Error("Error during shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.AppPort)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return nil
}
