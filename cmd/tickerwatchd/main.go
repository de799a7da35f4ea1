package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/tickerwatch/internal/admin"
	"github.com/rickgao/tickerwatch/internal/config"
	"github.com/rickgao/tickerwatch/internal/database"
	"github.com/rickgao/tickerwatch/internal/dedup"
	"github.com/rickgao/tickerwatch/internal/metrics"
	"github.com/rickgao/tickerwatch/internal/server"
	"github.com/rickgao/tickerwatch/internal/service"
	"github.com/rickgao/tickerwatch/internal/store"
	"github.com/rickgao/tickerwatch/internal/store/memory"
	"github.com/rickgao/tickerwatch/internal/store/postgres"
	"github.com/rickgao/tickerwatch/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults: in-memory store)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the config")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	cfg, err := config.LoadServerAndValidate(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("starting tickerwatchd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("tickerwatchd failed", "error", err)
		os.Exit(1)
	}
	logger.Info("tickerwatchd stopped")
}

func run(ctx context.Context, cfg *config.ServerConfig, logger *slog.Logger) error {
	gw, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	cache := dedup.New[service.MutationResult](dedup.Config{
		TTL:      cfg.Dedup.TTL,
		Capacity: cfg.Dedup.Capacity,
	})
	metrics.RegisterCacheStats(registry, cache.Stats)

	janitor := dedup.NewJanitor(cfg.Dedup.PurgeInterval, cache, clockwork.NewRealClock(), logger)
	if err := janitor.Start(ctx); err != nil {
		return fmt.Errorf("start janitor: %w", err)
	}

	svc := service.New(gw, cache,
		service.WithLogger(logger),
		service.WithMetrics(m),
	)

	grpcServer := server.New(svc, server.Config{
		MaxWorkers:           cfg.Server.MaxWorkers,
		MaxConcurrentStreams: cfg.Server.MaxConcurrentStreams,
	}, server.WithLogger(logger), server.WithMetrics(m))

	adminServer := admin.NewServer(cfg.Server.AdminAddr, admin.Deps{
		Store:    gw,
		Cache:    cache,
		Gatherer: registry,
		Logger:   logger,
	})

	lis, err := net.Listen("tcp", cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.ListenAddr, err)
	}

	logger.Info("tickerwatchd running",
		"grpc_addr", cfg.Server.ListenAddr,
		"admin_addr", cfg.Server.AdminAddr,
		"store", cfg.Store.Driver,
		"dedup_ttl", cfg.Dedup.TTL,
		"dedup_capacity", cfg.Dedup.Capacity,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Serve(lis)
	})
	g.Go(adminServer.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		grpcServer.Shutdown(shutdownCtx)
		return errors.Join(
			adminServer.Shutdown(shutdownCtx),
			janitor.Stop(shutdownCtx),
		)
	})

	return g.Wait()
}

// openStore returns the configured gateway and its cleanup func.
func openStore(ctx context.Context, cfg *config.ServerConfig, logger *slog.Logger) (store.Gateway, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.New(), func() {}, nil

	case config.StoreDriverPostgres:
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}

		pg := postgres.New(pool)
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("migrate schema: %w", err)
		}
		logger.Info("database connected")
		return pg, pg.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
