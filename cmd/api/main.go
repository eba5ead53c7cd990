// Command api serves the Citygram feed endpoints and the read-only publisher
// API, and keeps the cached feeds warm in the background.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"citygram-orlando/internal/config"
	hhttp "citygram-orlando/internal/handler/http"
	hcitygram "citygram-orlando/internal/handler/http/citygram"
	hpublisher "citygram-orlando/internal/handler/http/publisher"
	"citygram-orlando/internal/handler/http/requestid"
	"citygram-orlando/internal/infra/dispatch"
	"citygram-orlando/internal/infra/store"
	"citygram-orlando/internal/infra/worker"
	"citygram-orlando/internal/observability/logging"
	"citygram-orlando/internal/observability/tracing"
	cgUC "citygram-orlando/internal/usecase/citygram"
	pubUC "citygram-orlando/internal/usecase/publisher"
)

const serviceName = "citygram-orlando"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("api exited", slog.Any("error", err))
		os.Exit(1)
	}
}

// components holds what the HTTP server and background jobs share.
type components struct {
	store   *store.Store
	feeds   *cgUC.Service
	fetcher *dispatch.Client
	warmer  *worker.Warmer
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdownTracing, err := tracing.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown failed", slog.Any("error", err))
		}
	}()

	comps, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := comps.store.Close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	addr := ":" + strconv.Itoa(cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           routes(cfg, logger, comps),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", cfg.Version),
			slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	if comps.warmer != nil {
		g.Go(func() error {
			return comps.warmer.Start(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})
	return g.Wait()
}

func build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*components, error) {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Citygram.Timezone)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load citygram timezone: %w", err)
	}
	police, err := cgUC.NewPolice(cfg.Citygram.PoliceFeedURL, cfg.Citygram.PoliceWindow, loc, cfg.Citygram.IgnoredReasons)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("police feed: %w", err)
	}

	dcfg := dispatch.DefaultConfig()
	dcfg.Timeout = cfg.Dispatch.Timeout
	dcfg.MaxBodyBytes = cfg.Dispatch.MaxBodyBytes
	dcfg.RatePerSecond = cfg.Dispatch.RatePerSecond
	dcfg.Burst = cfg.Dispatch.Burst
	dcfg.UserAgent = cfg.Dispatch.UserAgent
	fetcher := dispatch.New(dcfg)

	comps := &components{
		store:   st,
		feeds:   cgUC.NewService(fetcher, cfg.Citygram.CacheTTL, police),
		fetcher: fetcher,
	}

	if cfg.Warmer.Enabled {
		wcfg := worker.DefaultConfig()
		wcfg.Schedule = cfg.Warmer.Schedule
		wcfg.Timezone = cfg.Warmer.Timezone
		w, err := worker.NewWarmer(wcfg, comps.feeds, worker.NewMetrics(prometheus.DefaultRegisterer), logger)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("feed warmer: %w", err)
		}
		comps.warmer = w
	}
	return comps, nil
}

func routes(cfg *config.Config, logger *slog.Logger, comps *components) http.Handler {
	mux := http.NewServeMux()

	hcitygram.Register(mux, comps.feeds, cfg.PublicBaseURL)
	hpublisher.Register(mux, &pubUC.Service{Repo: comps.store.Repo})

	health := &hhttp.HealthHandler{
		DB:      comps.store.DB,
		Version: cfg.Version,
		Breaker: comps.fetcher,
	}
	// a nil pointer must not become a non-nil interface
	if comps.warmer != nil {
		health.Warmer = comps.warmer
	}
	if comps.store.Breaker != nil {
		health.DBBreaker = comps.store.Breaker
	}
	mux.Handle("GET /health", health)
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: comps.store.DB})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return hhttp.Chain(mux,
		hhttp.Recover(logger),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.CORS,
		hhttp.MetricsMiddleware,
		hhttp.InputValidation(),
		hhttp.Timeout(30*time.Second),
	)
}
