package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ratehub/internal/adapters/cache"
	"ratehub/internal/adapters/httpclient"
	"ratehub/internal/adapters/postgres"
	"ratehub/internal/api"
	"ratehub/internal/config"
	"ratehub/internal/metrics"
	"ratehub/internal/platform/db"
	httpserver "ratehub/internal/platform/http"
	"ratehub/internal/rate"
	"ratehub/internal/rate/handler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	if err = db.Migrate(startupCtx, appCfg.DbServer); err != nil {
		logrus.WithError(err).Error("Error applying migrations")
		return err
	}
	logrus.Info("✅ Migrations applied")

	// Runtime settings seeded from config
	settings, err := rate.NewSettings(rate.Config{
		BaseCurrency:           appCfg.Rates.BaseCurrency,
		EnabledCurrencies:      appCfg.Rates.EnabledCurrencies,
		RefreshIntervalMinutes: appCfg.Rates.RefreshIntervalMinutes,
	})
	if err != nil {
		logrus.WithError(err).Error("Invalid rates configuration")
		return err
	}

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 15 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// External client
	rateClient := httpclient.NewOpenERAPIClient(
		baseHTTPClient,
		strings.TrimSuffix(appCfg.RatesAPI.BaseURL, "/"),
	)

	// Adapters
	store := postgres.NewRateStore(pool)
	ratesCache, err := cache.NewRatesCache(64, settings.RefreshInterval)
	if err != nil {
		logrus.WithError(err).Error("Failed to create rates cache")
		return err
	}
	defer ratesCache.Close()

	// Core
	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	refresher := rate.NewRefresher(rateClient, store, ratesCache, settings, m)
	scheduler := rate.NewScheduler(refresher, settings.RefreshInterval())

	// Settings changes invalidate the whole cache and re-arm the timer
	settings.OnChange(func(cfg rate.Config) {
		ratesCache.InvalidateAll()
		interval := time.Duration(cfg.RefreshIntervalMinutes) * time.Minute
		if rsErr := scheduler.Reschedule(interval); rsErr != nil {
			logrus.WithError(rsErr).Error("Failed to reschedule refresh job")
		}
	})

	// Ensure scheduler stops before DB pool closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	// Start scheduler tied to root context
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	service := rate.NewService(store, ratesCache, settings, refresher, scheduler, m)
	rateHandler := handler.NewRateHandler(service, settings)
	router := api.NewRouter(rateHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
