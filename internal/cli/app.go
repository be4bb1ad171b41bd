// Package cli wires configuration into the stores, engine and adapters shared
// by the scribe commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	scribe "github.com/MUSHYo888/patient-history-pro-scribe"
	"github.com/MUSHYo888/patient-history-pro-scribe/internal/config"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/adapters/file"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/adapters/memory"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/adapters/postgres"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/adapters/redis"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/observability"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/persistence/middleware"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/ports"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/runner"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/session"
)

// App holds everything a command needs to run interviews.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Engine      *scribe.Engine
	Sessions    *session.Manager
	Records     ports.RecordStore
	Interviewer *runner.Interviewer

	// Registry is nil when metrics are disabled.
	Registry *prometheus.Registry

	closers []io.Closer
}

// NewApp builds the engine, persistence and interviewer described by cfg.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	hooks := observability.LogHooks(logger)
	if cfg.Metrics {
		app.Registry = prometheus.NewRegistry()
		hooks = hooks.Merge(observability.NewMetrics(app.Registry).Hooks())
	}

	engineOpts := []scribe.Option{
		scribe.WithLogger(logger),
		scribe.WithLifecycleHooks(hooks),
	}
	if cfg.CatalogDir != "" {
		engineOpts = append(engineOpts, scribe.WithCatalogDir(cfg.CatalogDir))
	}
	eng, err := scribe.New(ctx, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	app.Engine = eng

	sessions, err := app.setupPersistence()
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Sessions = sessions

	records, err := app.setupRecords(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Records = records

	app.Interviewer = eng.Interviewer(sessions, runner.WithRecordStore(records))
	return app, nil
}

// setupPersistence selects the session store and wraps it in the
// configured encryption and masking middleware.
func (a *App) setupPersistence() (*session.Manager, error) {
	cfg := a.Config
	var (
		store ports.SessionStore
		opts  = []session.Option{session.WithLogger(a.Logger)}
	)

	switch cfg.Store {
	case config.StoreFile:
		store = file.New(cfg.StoreDir)
	case config.StoreRedis:
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.SessionTTL))
		a.closers = append(a.closers, rs)
		store = rs
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), redis.DefaultPrefix)))
	default:
		store = memory.NewStore()
	}

	var mws []middleware.Middleware
	if cfg.PIIMask {
		mws = append(mws, middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns))
	}
	if cfg.EncryptionKey != "" {
		key, err := middleware.KeyFromHex(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	store = middleware.Chain(store, mws...)

	a.Logger.Debug("session store ready", "store", cfg.Store, "pii_mask", cfg.PIIMask, "encrypted", cfg.EncryptionKey != "")
	return session.NewManager(store, opts...), nil
}

// setupRecords opens PostgreSQL when a database URL is configured. Otherwise
// records live next to file sessions, or in memory.
func (a *App) setupRecords(ctx context.Context) (ports.RecordStore, error) {
	cfg := a.Config
	switch {
	case cfg.DatabaseURL != "":
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		store := postgres.New(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case cfg.Store == config.StoreFile:
		return file.NewRecordStore(filepath.Join(cfg.StoreDir, "patients")), nil
	default:
		return memory.NewRecordStore(), nil
	}
}

// Close releases database and Redis connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
