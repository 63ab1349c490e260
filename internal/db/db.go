package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

func Open(driverName, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driverName, err)
	}

	if driverName == DriverSQLite {
		// SQLite allows one writer; the tournament lock already serializes writers per
		// tournament, a single connection serializes them across tournaments
		db.SetMaxOpenConns(1)

		if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			db.Close()
			return nil, err
		}
	}

	slog.Info("database connected", "driver", driverName)
	return db, nil
}

// RunMigrations applies every pending migration from sourceURL, e.g. "file://migrations".
func RunMigrations(conn *sql.DB, driverName, sourceURL string) error {
	var (
		driver database.Driver
		err    error
	)
	switch driverName {
	case DriverSQLite:
		driver, err = sqlite3.WithInstance(conn, &sqlite3.Config{})
	case DriverPostgres:
		driver, err = postgres.WithInstance(conn, &postgres.Config{})
	default:
		return fmt.Errorf("unsupported database driver %q", driverName)
	}
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, driverName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// The postgres driver pins a pooled connection, the sqlite3 driver would close conn on Close
	if driverName == DriverPostgres {
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		slog.Info("migrations applied", "version", version, "dirty", dirty)
	}
	return nil
}
