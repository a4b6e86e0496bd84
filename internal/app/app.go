package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/opgrid/internal/classes"
	"github.com/specialistvlad/opgrid/internal/ctxlog"
	"github.com/specialistvlad/opgrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx      context.Context
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	classes  *classes.Classes
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger and registry, populated by the given modules, or by
// the compiled-in modules when none are given. Manifests are not loaded until
// LoadManifests is called.
//
// A module that fails to register is a programmer error, so NewApp panics.
func NewApp(ctx context.Context, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	table := classes.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		if err := mod.Register(reg); err != nil {
			panic(fmt.Errorf("failed to register module %T: %w", mod, err))
		}
		if provider, ok := mod.(ClassProvider); ok {
			provider.AddClasses(table)
		}
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "classes", len(table.Names()))

	return &App{
		ctx:      ctx,
		logger:   logger,
		config:   cfg,
		registry: reg,
		classes:  table,
	}
}

// Context returns the application's context, carrying its logger.
func (a *App) Context() context.Context {
	return a.ctx
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Classes returns the table of classes manifests may bind to.
func (a *App) Classes() *classes.Classes {
	return a.classes
}
