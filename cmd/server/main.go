package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/awardvote/internal/adapters/handler/http"
	"github.com/vncsmyrnk/awardvote/internal/adapters/repository"
	"github.com/vncsmyrnk/awardvote/internal/catalog"
	"github.com/vncsmyrnk/awardvote/internal/config"
	"github.com/vncsmyrnk/awardvote/internal/core/services"
	"github.com/vncsmyrnk/awardvote/internal/platform/otel"
)

func main() {
	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(bootLogger)
	if err != nil {
		bootLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var driver string
	flag.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	flag.StringVar(&driver, "store", string(cfg.StoreDriver), "Vote store driver (postgres, sqlite, mysql, rest, memory)")
	flag.Parse()
	cfg.StoreDriver = config.StoreDriver(driver)
	if err := cfg.Validate(); err != nil {
		bootLogger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "awardvote", cfg.OtelEndpoint, cfg.OtelEnabled)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	categories, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	store, closeStore, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	voteService := services.NewVoteService(store, logger)
	ballotService := services.NewBallotService(categories, voteService, cfg.BallotSessionTTL, logger)
	resultsService := services.NewResultsService(store, categories, cfg.ReleaseAt(), logger)

	handler := http.NewHandler(
		http.NewCatalogHandler(categories),
		http.NewVotingHandler(voteService, ballotService),
		http.NewResultsHandler(resultsService, cfg.CountdownInterval),
		http.IdentityMiddleware(services.NewIdentityService(), cfg.CookieSecure),
		http.RouterConfig{AllowedOrigins: cfg.AllowedOrigins, Logger: logger},
	)
	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: handler}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver, "results_release_at", cfg.ReleaseAt())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
