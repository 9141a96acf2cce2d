package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nathanyu/balance-transfer/internal/engine"
	"github.com/nathanyu/balance-transfer/internal/handler"
	"github.com/nathanyu/balance-transfer/internal/middleware"
	"github.com/nathanyu/balance-transfer/internal/notify"
	"github.com/nathanyu/balance-transfer/internal/store"
	"github.com/nathanyu/balance-transfer/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "balance-transfer"

// Config holds application configuration
type Config struct {
	Port        int
	MetricsPort int
	NATSUrl     string
	GinMode     string
}

func main() {
	cfg := parseFlags()

	telemetry.InitLogger(serviceName)

	cleanup, err := telemetry.InitTracer(serviceName)
	if err != nil {
		slog.Warn("failed to initialize tracer", slog.String("error", err.Error()))
	} else {
		defer cleanup()
	}

	gin.SetMode(cfg.GinMode)

	slog.Info("starting balance transfer service")

	// Notification sink: NATS when configured, structured log otherwise.
	var notifier notify.Notifier
	if cfg.NATSUrl != "" {
		slog.Info("connecting to NATS", slog.String("url", cfg.NATSUrl))
		natsNotifier, err := notify.NewNATSNotifier(cfg.NATSUrl)
		if err != nil {
			slog.Error("failed to connect to NATS", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer natsNotifier.Close()
		notifier = natsNotifier
	} else {
		slog.Info("no NATS URL configured, notifications go to the log")
		notifier = notify.NewLogNotifier()
	}

	accounts := store.NewAccountStore()

	transferEngine := engine.NewTransferEngine(accounts, notifier)
	defer transferEngine.Close()

	h := handler.NewHandler(transferEngine)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Tracing())
	router.Use(middleware.Metrics())
	handler.SetupRoutes(router, h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Separate port for Prometheus scraping
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: metricsMux,
	}

	go func() {
		slog.Info("HTTP server listening", slog.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	go func() {
		slog.Info("metrics server listening", slog.Int("port", cfg.MetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("HTTP server forced to shutdown", slog.String("error", err.Error()))
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		slog.Warn("metrics server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("service stopped")
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.IntVar(&cfg.Port, "port", getEnvInt("PORT", 8080), "HTTP server port")
	flag.IntVar(&cfg.MetricsPort, "metrics-port", getEnvInt("METRICS_PORT", 9090), "Metrics server port")
	flag.StringVar(&cfg.NATSUrl, "nats-url", getEnv("NATS_URL", ""), "NATS server URL for notifications (empty disables NATS)")
	flag.StringVar(&cfg.GinMode, "gin-mode", getEnv("GIN_MODE", "release"), "Gin mode (debug/release)")

	flag.Parse()

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var v int
		if _, err := fmt.Sscanf(value, "%d", &v); err == nil {
			return v
		}
	}
	return defaultValue
}
