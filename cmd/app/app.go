package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/maloquacious/freshstart/internal/config"
	"github.com/maloquacious/freshstart/internal/installstate"
	"github.com/maloquacious/freshstart/internal/logger"
	"github.com/maloquacious/freshstart/internal/metrics"
	"github.com/maloquacious/freshstart/internal/store"
	"github.com/maloquacious/freshstart/internal/store/redis"
	"github.com/maloquacious/freshstart/internal/store/sqlite"
)

// application is the composition root shared by the commands.
type application struct {
	cfg        *config.Config
	log        logger.Logger
	db         *sqlite.SQLiteStore
	options    store.OptionStore
	recorder   *metrics.PrometheusRecorder
	classifier *installstate.Classifier
	closers    []func() error
}

func newLogger(c *config.Config) (logger.Logger, error) {
	return logger.New(c.LogFormat, c.Verbose)
}

// openDB opens the SQLite datastore without touching its schema.
func openDB(c *config.Config) (*sqlite.SQLiteStore, string, error) {
	storePath := store.GetStorePath(c.DataDir)
	path := store.GetDBPath(storePath)
	if err := os.MkdirAll(storePath, 0755); err != nil {
		return nil, path, fmt.Errorf("creating data directory: %w", err)
	}
	db := sqlite.New(path, schemaVersion)
	if err := db.Open(); err != nil {
		return nil, path, err
	}
	return db, path, nil
}

// openApplication wires the datastore, option store, logger, metrics and
// classifier. The initial schema is created when missing.
func openApplication(ctx context.Context, c *config.Config) (*application, error) {
	log, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	db, path, err := openDB(c)
	if err != nil {
		return nil, err
	}
	a := &application{
		cfg:      c,
		log:      log,
		db:       db,
		options:  db,
		recorder: metrics.NewPrometheusRecorder(nil),
		closers:  []func() error{db.Close},
	}
	if z, ok := log.(*logger.ZapLogger); ok {
		a.closers = append(a.closers, z.Sync)
	}

	state, err := db.CheckState()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("checking datastore %s: %w", path, err)
	}
	if state == store.StateUninitialized {
		log.Info("initializing datastore schema at %s", path)
		if err := db.InitSchema(schemaVersion); err != nil {
			a.Close()
			return nil, err
		}
	}

	if c.Options.Backend == config.BackendRedis {
		rs, err := redis.New(&goredis.Options{
			Addr:     c.Options.Redis.Addr,
			Password: c.Options.Redis.Password,
			DB:       c.Options.Redis.DB,
		}, c.Options.Redis.Namespace)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		if err := rs.Ping(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("redis option store at %s: %w", c.Options.Redis.Addr, err)
		}
		a.options = rs
	}

	a.classifier, err = installstate.New(installstate.Options{
		Options:     a.options,
		Schema:      db,
		Creator:     db,
		TablePrefix: c.TablePrefix,
		Logger:      log,
		Recorder:    a.recorder,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// activate runs what plugin activation runs: a fresh install gets its base
// tables once, an existing install gets migrated.
func (a *application) activate(ctx context.Context) error {
	if a.classifier.ShouldSkipMigrations(ctx) {
		a.log.Info("fresh install: skipping migrations")
		if !a.classifier.InitializeFreshInstall(ctx) {
			return errors.New("fresh install initialization did not complete")
		}
		return nil
	}
	a.log.Info("existing install: migrating %s tables to schema %s", a.cfg.TablePrefix, schemaVersion)
	return a.db.Migrate(ctx, a.cfg.TablePrefix, schemaVersion)
}

// installStatus is the JSON shape reported by `install status` and /admin/status.
type installStatus struct {
	State         string `json:"state"`
	Initialized   bool   `json:"initialized"`
	InitializedAt string `json:"initializedAt,omitempty"`
}

func (a *application) installStatus(ctx context.Context) (installStatus, error) {
	state, err := a.classifier.State(ctx)
	if err != nil {
		return installStatus{}, err
	}
	done, at, err := a.classifier.Initialized(ctx)
	if err != nil {
		return installStatus{}, err
	}
	return installStatus{State: state.String(), Initialized: done, InitializedAt: at}, nil
}

// ready reports whether the install is classified and, when fresh, initialized.
func (a *application) ready(ctx context.Context) bool {
	st, err := a.installStatus(ctx)
	if err != nil {
		return false
	}
	switch st.State {
	case installstate.StateExisting.String():
		return true
	case installstate.StateFresh.String():
		return st.Initialized
	}
	return false
}
