package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v5"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/protomem/resource-tracker/assets"

	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	_defaultConnectTimeout = 10 * time.Second
	_pgxDriverName         = "pgx"
	_sqliteDriverName      = "sqlite"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case DriverPostgres, DriverSQLite:
		return d, nil
	case "postgresql", "pgx":
		return DriverPostgres, nil
	case "sqlite3":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("database: unsupported driver %q", s)
	}
}

type Config struct {
	Driver         Driver
	DSN            string
	Automigrate    bool
	ConnectTimeout time.Duration
}

// DB is the process-wide store handle. It is created once at startup and
// handed to every component that needs the store.
type DB struct {
	*sqlx.DB
	Builder squirrel.StatementBuilderType
	Driver  Driver
}

// Wrap builds a DB around an already opened connection pool.
func Wrap(db *sqlx.DB, driver Driver) *DB {
	var placeholder squirrel.PlaceholderFormat = squirrel.Dollar
	if driver == DriverSQLite {
		placeholder = squirrel.Question
	}

	return &DB{
		DB:      db,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		Driver:  driver,
	}
}

func New(ctx context.Context, logger *slog.Logger, cfg Config) (*DB, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = _defaultConnectTimeout
	}

	logger = logger.With("module", "database", "driver", cfg.Driver)

	var (
		db  *DB
		err error
	)

	switch cfg.Driver {
	case DriverPostgres:
		db, err = openPostgres(ctx, logger, cfg)
	case DriverSQLite:
		db, err = openSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Automigrate {
		if err := db.migrateUp(cfg); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database: migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	return db, nil
}

func openPostgres(ctx context.Context, logger *slog.Logger, cfg Config) (*DB, error) {
	dsn := postgresURL(cfg.DSN)

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	db, err := backoff.Retry(ctx, func() (*sqlx.DB, error) {
		db, err := sqlx.ConnectContext(ctx, _pgxDriverName, dsn)
		if err != nil {
			logger.Warn("database not ready", "error", err)
			return nil, err
		}
		return db, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxElapsedTime(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	return Wrap(db, DriverPostgres), nil
}

func openSQLite(ctx context.Context, cfg Config) (*DB, error) {
	db, err := sqlx.Open(_sqliteDriverName, sqliteDSN(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	// A single connection serializes writers inside the process; the
	// partial unique index still guards against other processes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return Wrap(db, DriverSQLite), nil
}

func (db *DB) migrateUp(cfg Config) error {
	source, err := iofs.New(assets.EmbeddedFiles, "migrations/"+string(db.Driver))
	if err != nil {
		return err
	}

	var migrator *migrate.Migrate
	switch db.Driver {
	case DriverPostgres:
		migrator, err = migrate.NewWithSourceInstance("iofs", source, postgresURL(cfg.DSN))
		if err != nil {
			return err
		}
		defer migrator.Close()
	case DriverSQLite:
		// Reuse the open pool so in-memory databases see the schema.
		driver, err := sqlitemigrate.WithInstance(db.DB.DB, &sqlitemigrate.Config{})
		if err != nil {
			return err
		}
		migrator, err = migrate.NewWithInstance("iofs", source, "sqlite", driver)
		if err != nil {
			return err
		}
		defer source.Close()
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		return nil
	case err != nil:
		return err
	}

	return nil
}

func postgresURL(dsn string) string {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		dsn = "postgres://" + dsn
	}
	if !strings.Contains(dsn, "sslmode=") {
		dsn += querySeparator(dsn) + "sslmode=disable"
	}
	return dsn
}

func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = ":memory:"
	}
	for _, pragma := range []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
		"_time_format=sqlite",
	} {
		key, _, _ := strings.Cut(pragma, "(")
		if strings.Contains(dsn, key) {
			continue
		}
		dsn += querySeparator(dsn) + pragma
	}
	return dsn
}

func querySeparator(dsn string) string {
	if strings.Contains(dsn, "?") {
		return "&"
	}
	return "?"
}
