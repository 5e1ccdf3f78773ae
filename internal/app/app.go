package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/buildopts"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/config"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle for one pipeline-generation run.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
	getenv buildopts.GetenvFunc
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		getenv: os.Getenv,
	}
}

// Logger returns the application's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
