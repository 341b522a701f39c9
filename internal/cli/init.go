// Package cli provides the initialization shared by the budgetapp commands:
// environment loading, logging, configuration and service wiring.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budgetapp/internal/backend"
	"budgetapp/internal/config"
	"budgetapp/internal/ledger"
	"budgetapp/internal/log"
	"budgetapp/internal/metrics"
	"budgetapp/internal/session"
	"budgetapp/internal/store"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from the configuration and
// installs it as the slog default.
func SetupLogger(cfg *config.Config, out io.Writer) *log.Logger {
	if out == nil {
		out = os.Stdout
	}
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// Overrides are command-line values that take precedence over the environment.
type Overrides struct {
	Backend string
	DBPath  string
}

// LoadConfig reads the environment, applies overrides and validates the result.
func LoadConfig(o Overrides) (*config.Config, error) {
	cfg := config.Load()
	if o.Backend != "" {
		cfg.DataBackend = o.Backend
	}
	if o.DBPath != "" {
		cfg.SQLiteDBPath = o.DBPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App bundles the services every command works with.
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	Metrics   *metrics.Metrics
	Persister *store.Persister
	Session   *session.Service
	Ledger    *ledger.Ledger

	backend *backend.BackendResult
}

// Open creates the configured store and the services on top of it.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	p := store.NewPersister(res.Store, logger.WithComponent(log.ComponentStore))
	return &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		Persister: p,
		Session: session.NewService(p, logger,
			session.WithHasher(session.NewHasher(cfg.BcryptCost)),
			session.WithObserver(m)),
		Ledger:  ledger.New(p, logger, ledger.WithObserver(m)),
		backend: res,
	}, nil
}

// Close releases the backend.
func (a *App) Close() error {
	if err := a.backend.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM.
func ShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// IgnoreClosed maps context cancellation to a clean exit.
func IgnoreClosed(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
