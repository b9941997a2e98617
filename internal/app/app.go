package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/cornergrid/internal/config"
	"github.com/vk/cornergrid/internal/ctxlog"
	"github.com/vk/cornergrid/internal/progress"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	ctx        context.Context
	config     *Config
	loader     config.Loader
	tracker    *progress.Tracker
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. The loader reads the
// optional sweep file.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:    outW,
		logger:  logger,
		ctx:     ctxlog.WithLogger(context.Background(), logger),
		config:  cfg,
		loader:  loader,
		tracker: progress.NewTracker(),
	}
}

// Progress returns a snapshot of the current batch. This is primarily for
// the healthcheck endpoint and tests.
func (a *App) Progress() progress.Snapshot {
	return a.tracker.Snapshot()
}
