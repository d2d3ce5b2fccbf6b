// Command retouchd serves edit sessions over HTTP.
//
// Usage:
//
//	retouchd -config retouchd.yaml      # run with config file
//	retouchd -listen :8080 -db retouch.db
//	retouchd -listen :8080              # in-memory sessions only
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/retouch"
	"github.com/gogpu/retouch/internal/config"
	"github.com/gogpu/retouch/internal/parallel"
	"github.com/gogpu/retouch/internal/remote"
	"github.com/gogpu/retouch/internal/server"
	"github.com/gogpu/retouch/internal/store"
	"github.com/gogpu/retouch/raster"
)

func main() {
	configPath := flag.String("config", "", "path to retouchd.yaml config file")
	listen := flag.String("listen", "", "listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database for sessions (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	cfg, err := resolveConfig(*configPath, *listen, *dbPath, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	retouch.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("retouchd: fatal", "error", err)
		os.Exit(1)
	}
}

func resolveConfig(path, listen, dbPath, logLevel string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if listen != "" {
		cfg.Listen = listen
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

// sessionOptions derives the per-session options from the configuration.
func sessionOptions(cfg *config.Config, logger *slog.Logger) []retouch.SessionOption {
	opts := []retouch.SessionOption{
		retouch.WithLogger(logger),
		retouch.WithPreviewMaxDim(cfg.Editor.PreviewMaxDim),
		retouch.WithMaxPixels(cfg.Editor.MaxPixels),
		retouch.WithEncodeOptions(&raster.EncodeOptions{JPEGQuality: cfg.Editor.JPEGQuality}),
	}
	if cfg.Remote.Endpoint != "" {
		client := remote.New(cfg.Remote.Endpoint,
			remote.WithTimeout(cfg.Remote.Timeout),
			remote.WithAPIKey(cfg.Remote.APIKey),
			remote.WithLogger(logger))
		opts = append(opts, retouch.WithBackgroundRemover(client))
	}
	return opts
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	if cfg.Workers > 0 {
		parallel.SetWorkers(cfg.Workers)
	}

	var st *store.Store
	if cfg.DBPath != "" {
		var err error
		if st, err = store.Open(cfg.DBPath, logger); err != nil {
			return err
		}
		defer st.Close()
	}

	handler := server.New(server.Options{
		Store:          st,
		Logger:         logger,
		SessionOptions: sessionOptions(cfg, logger),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("retouchd: listening", "addr", cfg.Listen, "db", cfg.DBPath, "remote", cfg.Remote.Endpoint != "")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("retouchd: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
