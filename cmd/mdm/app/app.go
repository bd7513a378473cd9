// Package app provides the application context and dependency management
// for the mdm CLI. It centralizes configuration, logging, and the
// resolution registry behind a single injectable type, so commands never
// reach for ambient global state.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/civicdata/mdm/internal/sources"
	"github.com/civicdata/mdm/pkg/registry"
	"github.com/civicdata/mdm/pkg/registry/memory"
	"github.com/civicdata/mdm/pkg/resolve"
)

// App represents the mdm application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Resolution output (lazy-initialized, built exactly once)
	mu       sync.RWMutex
	result   *resolve.Result
	registry registry.Registry
}

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Result runs the resolution pass, loading every configured source and
// building golden records. The pass runs at most once per process; fatal
// load errors propagate and nothing is cached, so no partial output is
// ever published.
func (a *App) Result() (*resolve.Result, error) {
	a.mu.RLock()
	if a.result != nil {
		result := a.result
		a.mu.RUnlock()
		return result, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.result != nil {
		return a.result, nil
	}

	sets, err := sources.Load(a.sourceDefinitions())
	if err != nil {
		a.logger.Error().Err(err).Msg("Error loading data")
		return nil, err
	}

	pipeline := resolve.NewPipeline(resolve.WithLogger(a.logger))
	a.result = pipeline.Run(sets)
	return a.result, nil
}

// Registry returns the resolution store, building it from the pass output
// on first use. The returned registry is immutable; a reload would mean a
// new App (and therefore a new registry), never in-place mutation.
func (a *App) Registry() (registry.Registry, error) {
	result, err := a.Result()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.registry == nil {
		a.registry = memory.New(result)
	}
	return a.registry, nil
}

// sourceDefinitions resolves the configured source set.
func (a *App) sourceDefinitions() []sources.Source {
	return sources.Definitions(a.config.DataDir)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
