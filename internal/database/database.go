package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pageza/food/config"
	"github.com/pageza/food/internal/logging"
)

// SQLiteDriverName is the database/sql driver every SQLite pool is opened with. Its connect hook
// enables foreign key enforcement on each physical connection the pool creates.
const SQLiteDriverName = "sqlite3_food"

const (
	connectTimeout     = 5 * time.Second
	slowQueryThreshold = 200 * time.Millisecond
)

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if _, err := conn.Exec("PRAGMA foreign_keys = ON", nil); err != nil {
				return fmt.Errorf("enable foreign keys: %w", err)
			}
			return nil
		},
	})
}

// DB represents the database connection pool
type DB struct {
	*gorm.DB
}

// PoolOptions tunes the connection pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// New creates a new database connection pool from the configured DATABASE_URL
func New(cfg *config.Config, log zerolog.Logger) (*DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	return Open(cfg.DatabaseURL, PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, log)
}

// Open connects to databaseURL. postgres:// URLs use the postgres driver, anything else is
// treated as a SQLite location.
func Open(databaseURL string, opts PoolOptions, log zerolog.Logger) (*DB, error) {
	dialector, dsn := dialectorFor(databaseURL)

	// Log connection target (without credentials)
	log.Info().Str("dialect", dialector.Name()).Str("target", redact(dsn)).Msg("connecting to database")

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormLogger(log, slowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error accessing connection pool: %w", err)
	}

	// Every :memory: connection is its own empty database, so the pool must not grow past one.
	if isMemory(dsn) {
		opts.MaxOpenConns = 1
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Info().Str("dialect", dialector.Name()).Msg("successfully connected to database")
	return &DB{DB: db}, nil
}

// HealthCheck checks if the database is accessible
func (db *DB) HealthCheck(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every pooled connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(databaseURL string) (gorm.Dialector, string) {
	u := strings.TrimSpace(databaseURL)
	lower := strings.ToLower(u)

	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return postgres.Open(u), u
	}

	dsn := sqliteDSN(u)
	return &sqlite.Dialector{DriverName: SQLiteDriverName, DSN: dsn}, dsn
}

// sqliteDSN strips the sqlite:// or sqlite: scheme so the remainder can be handed to go-sqlite3.
func sqliteDSN(databaseURL string) string {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return strings.TrimPrefix(databaseURL, "sqlite://")
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return strings.TrimPrefix(databaseURL, "sqlite:")
	default:
		return databaseURL
	}
}

func isMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// redact hides the password portion of a URL-style DSN.
func redact(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		creds = creds[:colon] + ":***"
	}
	return dsn[:scheme+3] + creds + dsn[at:]
}
