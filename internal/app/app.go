package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bgunnarsson/sqlpad/internal/config"
	"github.com/bgunnarsson/sqlpad/internal/db"
	"github.com/bgunnarsson/sqlpad/internal/db/mssql"
	"github.com/bgunnarsson/sqlpad/internal/db/mysql"
	"github.com/bgunnarsson/sqlpad/internal/db/postgres"
	"github.com/bgunnarsson/sqlpad/internal/db/sqlite"
	"github.com/bgunnarsson/sqlpad/internal/prefs"
	"github.com/bgunnarsson/sqlpad/internal/vault"
)

// OpenFunc connects to driver.
type OpenFunc func(ctx context.Context, driver db.Driver, dsn string) (db.DB, error)

// central factory
func openDB(ctx context.Context, driver db.Driver, dsn string) (db.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, db.ErrEmptyDSN
	}
	switch driver {
	case "", db.DriverMysql:
		return asDB(mysql.Open(ctx, dsn))
	case db.DriverPostgres:
		return asDB(postgres.Open(ctx, dsn))
	case db.DriverSqlite:
		return asDB(sqlite.Open(ctx, dsn))
	case db.DriverMssql:
		return asDB(mssql.Open(ctx, dsn))
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// asDB keeps a nil *T from turning into a non-nil db.DB.
func asDB[T db.DB](conn T, err error) (db.DB, error) {
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// App wires configuration, the saved-config vault and the database layer for
// every command.
type App struct {
	cfg    *config.Config
	logger logrus.FieldLogger
	out    io.Writer
	store  prefs.Store
	vault  *vault.Vault
	open   OpenFunc
}

// New opens the preferences store named by cfg.
func New(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, out io.Writer) (*App, error) {
	store, err := prefs.OpenSQLite(ctx, cfg.Prefs.Path, logger)
	if err != nil {
		return nil, err
	}
	return NewWithStore(cfg, logger, out, store, nil), nil
}

// NewWithStore builds an App on an already open store. A nil open uses the
// real drivers.
func NewWithStore(cfg *config.Config, logger logrus.FieldLogger, out io.Writer, store prefs.Store, open OpenFunc) *App {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	if open == nil {
		open = openDB
	}
	key := prefs.KeyFor(config.InstallDir())
	return &App{
		cfg:    cfg,
		logger: logger,
		out:    out,
		store:  store,
		vault:  vault.New(store, key, cfg.Passphrase(), logger),
		open:   open,
	}
}

func (a *App) Close() error { return a.store.Close() }

func (a *App) driver() db.Driver { return db.Driver(a.cfg.Driver) }

// opener binds the driver and bounds the connect round trip by
// connect_timeout.
func (a *App) opener() db.OpenFunc {
	driver, timeout := a.driver(), a.cfg.ConnectTimeout
	return func(ctx context.Context, dsn string) (db.DB, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return a.open(ctx, driver, dsn)
	}
}

// withQueryTimeout applies query_timeout; zero disables it.
func (a *App) withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.QueryTimeout)
}

// resolve fills an empty dsn or sql from the saved configuration.
func (a *App) resolve(dsn, sql string) (string, string) {
	if dsn != "" && sql != "" {
		return dsn, sql
	}
	saved := a.vault.Load()
	if dsn == "" {
		dsn = saved.ConnectionString
	}
	if sql == "" {
		sql = saved.QueryText
	}
	return dsn, sql
}

func elapsedSince(start time.Time) time.Duration {
	return time.Since(start).Truncate(time.Millisecond)
}
