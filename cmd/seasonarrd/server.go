package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"
	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/seasonarr/internal/api/v1"
	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/config"
	"github.com/vmunix/seasonarr/internal/events"
	"github.com/vmunix/seasonarr/internal/metadata"
	"github.com/vmunix/seasonarr/internal/metrics"
	"github.com/vmunix/seasonarr/internal/migrations"
	"github.com/vmunix/seasonarr/internal/server"
	"github.com/vmunix/seasonarr/internal/ytdlp"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig reads path, or the discovered config file when path is empty.
// Running without any config file uses the defaults.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return config.Default(), "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// logOutput is stdout, teed into a rotating file when one is configured.
func logOutput(cfg config.ServerConfig) (io.Writer, io.Closer) {
	if cfg.LogFile == "" {
		return os.Stdout, nil
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	return io.MultiWriter(os.Stdout, lj), lj
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func runServer(configPath string) error {
	cfg, path, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	out, closer := logOutput(cfg.Server)
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	if path == "" {
		logger.Info("no config file found, using defaults")
	} else {
		logger.Info("loaded config", "path", path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// === Stores (always created) ===
	store := catalog.NewFileStore(cfg.Catalog.Path)
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger)
	defer func() { _ = bus.Close() }()
	cache := metadata.NewCache(db)

	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	// === Extractor (optional - nil if yt-dlp is missing) ===
	deps := v1.ServerDeps{
		Catalog:  store,
		Bus:      bus,
		EventLog: eventLog,
		Metrics:  m,
		Registry: reg,
		Version:  version,
	}
	yt, err := ytdlp.New(cfg.YtDlp.Binary, ytdlp.Timeouts{
		Playlist: cfg.YtDlp.PlaylistTimeout.Duration,
		Stream:   cfg.YtDlp.StreamTimeout.Duration,
		Video:    cfg.YtDlp.VideoTimeout.Duration,
		Channel:  cfg.YtDlp.ChannelTimeout.Duration,
	}, logger)
	switch {
	case errors.Is(err, ytdlp.ErrNotInstalled):
		logger.Warn("imports disabled", "error", err)
	case err != nil:
		return fmt.Errorf("ytdlp: %w", err)
	case cfg.Cache.TTL.Duration > 0:
		deps.Extractor = metadata.NewCachedExtractor(yt, cache, cfg.Cache.TTL.Duration, logger).WithMetrics(m)
		deps.ExtractorID = yt.Binary()
	default:
		deps.Extractor = yt
		deps.ExtractorID = yt.Binary()
	}

	api, err := v1.NewWithDeps(deps, logger)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	runner := server.NewRunner(server.Config{
		Addr:          cfg.Addr(),
		PruneInterval: cfg.Events.PruneInterval.Duration,
		Retention:     cfg.Events.Retention.Duration,
	}, v1.LogRequests(logger, mux), logger).WithEventLog(eventLog)
	if deps.Extractor != nil && cfg.Cache.TTL.Duration > 0 {
		runner = runner.WithCache(cache)
	}

	logger.Info("seasonarrd starting",
		"version", version,
		"catalog", cfg.Catalog.Path,
		"extractor", deps.ExtractorID != "",
	)
	return runner.Run(ctx)
}
