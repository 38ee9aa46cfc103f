package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reconciler/cmd"
	"reconciler/internal/jobs"
	"reconciler/internal/tracing"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	serviceName     = "order-reconciler"
	shutdownTimeout = 10 * time.Second
)

func main() {
	configs := getConfigs()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := tracing.Init(serviceName, configs.JaegerEndpoint, logger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(tracerProvider, logger)

	gormDB, err := cmd.OpenDatabase(ctx, configs)
	if err != nil {
		logger.Error("order store unreachable", "error", err)
		os.Exit(1)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, tracerProvider.Tracer(), logger)
	if err := app.CheckOrderStore(ctx); err != nil {
		logger.Error("orders table does not match the expected layout", "error", err)
		os.Exit(1)
	}

	if configs.Daemon() {
		runDaemon(ctx, &app, configs.HTTPPort, logger)
		return
	}

	if code := runOnce(ctx, &app, configs, logger); code != 0 {
		shutdownTracing(tracerProvider, logger)
		os.Exit(code)
	}
}

func getConfigs() cmd.Config {
	// .env is optional; the process environment takes precedence.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return config
}

func runOnce(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) int {
	job := app.CreateReconciliationJob()

	_, runErr := job.RunOnce(ctx)

	if configs.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), configs.ProviderTimeout)
		defer cancel()
		if err := app.Metrics().Push(pushCtx, configs.PushgatewayURL, serviceName); err != nil {
			logger.Warn("failed to push metrics", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("reconciliation run failed", "error", runErr)
		return 1
	}
	return 0
}

func runDaemon(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	job := app.CreateReconciliationJob()
	jobManager := jobs.NewJobManager(job)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}

	e := startWebServer(app, job, port)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to stop web server", "error", err)
	}
	jobManager.StopAll()
}

func startWebServer(app *cmd.CompositionRoot, job *jobs.ReconciliationJob, port string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	app.CreateHTTPServer(job).Register(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()
	return e
}

func shutdownTracing(provider *tracing.Provider, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := provider.Shutdown(ctx); err != nil {
		logger.Warn("failed to flush traces", "error", err)
	}
}
