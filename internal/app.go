package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ghexplorer/internal/controllers"
	"ghexplorer/internal/providers"
	"ghexplorer/internal/scheduler"
	"ghexplorer/internal/storage"
	"ghexplorer/internal/structures"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	WebServer *http.Server
	conf      *structures.Config
	logger    providers.Logger
	scheduler scheduler.SchedulerInterface
	store     *storage.Store
}

func NewApp(healthController *controllers.HealthController, sched scheduler.SchedulerInterface, store *storage.Store, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      NewHandler(healthController, conf, logger, router, metrics),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		conf:      conf,
		logger:    logger,
		scheduler: sched,
		store:     store,
	}
}

// NewHandler mounts the infrastructure endpoints next to the instrumented API.
func NewHandler(healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	// Inner mux: API routes
	apiMux := providers.NewServeMux(router)

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return providers.RequestLogMiddleware(logger, mux)
}

// Run serves until ctx is cancelled, then drains requests and flushes storage.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	if err := a.scheduler.Restore(ctx); err != nil {
		a.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	if a.store.Degraded() {
		a.logger.Warnf(providers.TypeApp, "Persistence is degraded, data will not survive a restart")
	}

	a.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		a.scheduler.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	a.scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := a.WebServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := a.scheduler.Persist(); err != nil {
		return err
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
