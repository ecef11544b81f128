package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nodecolor/internal/colorize"
	"nodecolor/internal/config"
	"nodecolor/internal/handler"
	"nodecolor/internal/hub"
	"nodecolor/internal/loader"
	"nodecolor/internal/logging"
	"nodecolor/internal/metrics"
	"nodecolor/internal/repository/sqlite"
	"nodecolor/internal/service"
	"nodecolor/internal/watcher"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	load := flag.String("load", "", "Comma-separated graph files or directories to import at startup")
	watch := flag.Bool("watch", false, "Re-import loaded files when they change")
	flag.Parse()

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nodecolor-server: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	defer logger.Sync()

	if path != "" {
		logger.Info("config loaded", zap.String("path", path))
	}

	if err := run(cfg, logger, *load, *watch); err != nil {
		logger.Error("server failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func run(cfg *config.Config, logger *zap.Logger, load string, watch bool) error {
	logger.Info("starting nodecolor server", zap.String("config", cfg.Summary()))

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	logger.Info("database opened", zap.String("path", cfg.Database.Path))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eventBus := service.NewEventBus()

	sseHub := hub.New(logger.Named("sse"))
	go sseHub.Run(ctx)

	// Forward service events to SSE clients
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(string(event.Type), event.GraphID, event.Payload)
			case <-ctx.Done():
				return
			}
		}
	}()

	m := metrics.New()
	colorSvc := service.NewColorService(repo, eventBus, logger.Named("colorize"), cfg.ColorizeOptions()...).
		WithMetrics(m)

	if load != "" {
		paths, err := loader.Expand(load)
		if err != nil {
			return fmt.Errorf("resolve -load: %w", err)
		}
		l := loader.New(colorSvc, logger.Named("loader"))
		if _, err := l.LoadFiles(ctx, paths); err != nil {
			return err
		}
		if watch {
			watchFiles(ctx, l, paths, logger.Named("watcher"))
		}
	}

	policy, _ := colorize.ParsePolicy(cfg.Colorize.Policy)
	graphHandler := handler.NewGraphHandler(colorSvc, logger.Named("http"),
		handler.DefaultToolInfo(cfg.Colorize.Keyword, policy))

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handler.NewRouter(handler.Deps{
			Graphs:  graphHandler,
			Events:  sseHub,
			Metrics: m,
			Logger:  logger.Named("http"),
		}),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// watchFiles re-imports each path whenever it is saved
func watchFiles(ctx context.Context, l *loader.Loader, paths []string, logger *zap.Logger) {
	for _, path := range paths {
		path := path
		w := watcher.New(path, func() {
			if _, err := l.LoadFile(ctx, path); err != nil {
				logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
			}
		}).WithLogger(logger)

		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watch stopped", zap.String("path", path), zap.Error(err))
			}
		}()
	}
}
