package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/krishi-dashboard/internal/cache"
	"github.com/kjstillabower/krishi-dashboard/internal/circuitbreaker"
	"github.com/kjstillabower/krishi-dashboard/internal/client"
	"github.com/kjstillabower/krishi-dashboard/internal/config"
	httphandler "github.com/kjstillabower/krishi-dashboard/internal/http"
	"github.com/kjstillabower/krishi-dashboard/internal/lifecycle"
	"github.com/kjstillabower/krishi-dashboard/internal/models"
	"github.com/kjstillabower/krishi-dashboard/internal/observability"
	"github.com/kjstillabower/krishi-dashboard/internal/refresh"
	"github.com/kjstillabower/krishi-dashboard/internal/settings"
	"github.com/kjstillabower/krishi-dashboard/internal/store"
)

const (
	initialLoadTimeout       = 30 * time.Second
	inFlightCheckInterval    = 50 * time.Millisecond
	historyInitialWindowDays = 30
)

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	api, err := client.New(cfg.APIBaseURL, cfg.APITimeout)
	if err != nil {
		logger.Fatal("backend client", zap.Error(err))
	}

	if cfg.CircuitBreakerEnabled {
		const component = "backend_api"
		cb := circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: cfg.CircuitBreakerFailures,
			SuccessThreshold: cfg.CircuitBreakerSuccesses,
			Timeout:          cfg.CircuitBreakerTimeout,
			Component:        component,
			OnStateChange: func(from, to circuitbreaker.State) {
				observability.RecordCircuitBreakerTransition(component, from.String(), to.String())
				observability.SetCircuitBreakerStateGauge(component, int(to))
				logger.Warn("circuit breaker transition", zap.String("from", from.String()), zap.String("to", to.String()))
			},
		})
		api.SetCircuitBreaker(cb)
		observability.SetCircuitBreakerStateGauge(component, 0)
		logger.Info("circuit breaker enabled",
			zap.Int("failure_threshold", cfg.CircuitBreakerFailures),
			zap.Duration("timeout", cfg.CircuitBreakerTimeout))
	}

	policy, err := store.ParsePolicy(cfg.StorePolicy)
	if err != nil {
		logger.Fatal("store policy", zap.Error(err))
	}
	st := store.New(api, store.Options{Policy: policy, Logger: logger})
	logger.Info("store ready", zap.String("policy", string(policy)))

	settingsBackend, err := cache.New(cache.Options{
		Backend:               cfg.SettingsBackend,
		MemcachedAddrs:        cfg.MemcachedAddrs,
		MemcachedTimeout:      cfg.MemcachedTimeout,
		MemcachedMaxIdleConns: cfg.MemcachedMaxIdleConns,
		SQLitePath:            cfg.SQLitePath,
	})
	if err != nil {
		logger.Fatal("settings backend", zap.Error(err))
	}
	logger.Info("settings backend", zap.String("backend", cfg.SettingsBackend))
	settingsMgr := settings.NewManager(settingsBackend, nil, logger)

	if err := authenticate(st, cfg, logger); err != nil {
		logger.Fatal("authentication", zap.Error(err))
	}
	initialLoad(st, logger)

	schedCtx, schedCancel := context.WithCancel(context.Background())
	scheduler := refresh.NewScheduler(nil, logger)
	for _, job := range refreshJobs(st, cfg.RefreshInterval) {
		if err := scheduler.Add(job); err != nil {
			logger.Fatal("refresh job", zap.String("job", job.Name), zap.Error(err))
		}
	}
	scheduler.Start(schedCtx)

	healthConfig := &httphandler.HealthConfig{
		OverloadWindow:       cfg.OverloadWindow,
		OverloadThresholdPct: cfg.OverloadThresholdPct,
		DegradedWindow:       cfg.DegradedWindow,
		DegradedErrorPct:     cfg.DegradedErrorPct,
		DegradedMinSamples:   cfg.DegradedMinSamples,
		StartTime:            time.Now(),
	}
	if p, ok := settingsBackend.(cache.Pinger); ok {
		healthConfig.SettingsPing = p.Ping
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	observability.RegisterRateLimitGauges(cfg.OverloadWindow)

	handler := httphandler.NewHandler(st, settingsMgr, healthConfig, logger, nil)
	handler.SetDefaultLocation(cfg.DefaultLocation)
	router := httphandler.NewRouter(httphandler.RouterConfig{
		Handler:        handler,
		Logger:         logger,
		Limiter:        limiter,
		RequestTimeout: cfg.RequestTimeout,
	})
	if cfg.TestingMode {
		logger.Warn("testing mode enabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()
	lifecycle.SetReady(true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	logger.Info("waiting for in-flight requests", zap.Int64("count", httphandler.InFlightCount()))
	if err := httphandler.WaitForInFlight(shutdownCtx, inFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	schedCancel()
	scheduler.Wait()

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}
	if err := settingsBackend.Close(); err != nil {
		logger.Error("settings backend close", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

// authenticate checks the existing session and logs in with the configured
// credentials when there is none.
func authenticate(st *store.Store, cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), initialLoadTimeout)
	defer cancel()

	ok, err := st.Auth.CheckAuth(ctx)
	if err == nil && ok {
		logger.Info("existing session is authenticated")
		return nil
	}
	if cfg.Username == "" {
		return fmt.Errorf("not authenticated and no username configured")
	}
	if _, err := st.Auth.Login(ctx, models.Credentials{Username: cfg.Username, Password: cfg.Password}); err != nil {
		return fmt.Errorf("login as %q: %w", cfg.Username, err)
	}
	logger.Info("logged in", zap.String("username", cfg.Username))
	return nil
}

// refreshJobs is the periodic schedule: the dashboard bundle and the alert list.
// Predictions, stats and system status load once at startup and on manual refresh.
func refreshJobs(st *store.Store, interval time.Duration) []refresh.Job {
	return []refresh.Job{
		{Name: store.DomainDashboard, Interval: interval, Run: func(ctx context.Context) error {
			_, err := st.Dashboard.Fetch(ctx)
			return err
		}},
		{Name: store.DomainAlerts, Interval: interval, Run: func(ctx context.Context) error {
			_, err := st.Alerts.Fetch(ctx)
			return err
		}},
	}
}

// initialLoad fills the views that are not periodically refreshed. Failures are
// recorded on the containers and do not stop startup.
func initialLoad(st *store.Store, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), initialLoadTimeout)
	defer cancel()

	now := time.Now()
	steps := []struct {
		name string
		run  func() error
	}{
		{store.DomainPermission, func() error { _, err := st.Permission.Fetch(ctx); return err }},
		{store.DomainDashboard, func() error { return st.Dashboard.Refresh(ctx) }},
		{store.DomainNepaliSeason, func() error { return st.NepaliSeason.Load(ctx) }},
		{store.DomainAnalytics, func() error { return st.Analytics.Load(ctx, store.DefaultPeriod) }},
		{store.DomainHistory, func() error {
			return st.History.Load(ctx, store.HistoryQuery{Range: store.DateRange{
				Start: now.AddDate(0, 0, -historyInitialWindowDays).Format(time.DateOnly),
				End:   now.Format(time.DateOnly),
			}})
		}},
		{store.DomainHourly, func() error { _, err := st.Hourly.Fetch(ctx, store.DefaultHours); return err }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			logger.Warn("initial load failed", zap.String("domain", s.name), zap.String("error", client.Message(err)))
		}
	}
}
