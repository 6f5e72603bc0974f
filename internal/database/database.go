package database

import (
	"context"
	"fmt"

	"quiz-learn/internal/config"
	"quiz-learn/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // driver: sqlite
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultSQLiteDSN   = "file:quizlearn.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	defaultPostgresDSN = "postgres://localhost:5432/quizlearn?sslmode=disable"
)

// driverName maps a configured driver to the database/sql driver it registers.
func driverName(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite", nil
	case DriverPostgres:
		return "pgx", nil
	}
	return "", fmt.Errorf("unsupported driver: %s", driver)
}

// Open connects to the configured database and verifies the connection.
// SQLite is limited to a single connection so writes serialize.
func Open(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	drvName, err := driverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DSN
	if dsn == "" {
		dsn = defaultSQLiteDSN
		if cfg.Driver == DriverPostgres {
			dsn = defaultPostgresDSN
		}
	}

	db, err := sqlx.ConnectContext(ctx, drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
	}

	logger.Get().Info("Connected to database", zap.String("driver", cfg.Driver))
	return db, nil
}
