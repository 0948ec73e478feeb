package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/dispatchgrid/internal/config"
	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
	"github.com/specialistvlad/dispatchgrid/internal/handlers"
	"github.com/specialistvlad/dispatchgrid/internal/session"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	model    *config.Model
	handlers *handlers.Handlers
	session  *session.Session
}

// NewApp is the constructor for the main application. It loads the manifests
// and registers their definitions against the Go handlers of the given
// modules (the core modules when none are given). Results are written to
// outW and logs to logW.
//
// Manifests that cannot be loaded or applied are fatal startup errors and
// cause a panic.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...handlers.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.ManifestPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load manifests: %w", err))
	}
	logger.Debug("Manifests loaded and translated into unified model.")

	if len(modules) == 0 {
		modules = coreModules
	}
	h := handlers.New().Load(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules),
		"validators", h.ValidatorNames(), "methods", h.MethodNames())

	s := session.New(logger)
	if err := s.Apply(ctx, model, h); err != nil {
		panic(fmt.Errorf("failed to apply manifests: %w", err))
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		model:    model,
		handlers: h,
		session:  s,
	}
}

// Session returns the application's session. This is primarily for testing.
func (a *App) Session() *session.Session {
	return a.session
}

// Model returns the loaded manifest model.
func (a *App) Model() *config.Model {
	return a.model
}
