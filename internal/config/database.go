package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	pgrepo "github.com/Kerhoff/planmyevents/internal/repository/postgres"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Database is the Postgres pool behind the postgres storage driver
type Database struct {
	*sql.DB
	logger *logrus.Logger
}

// NewDatabase opens the pool and pings the server, retrying with a growing
// backoff until connectAttempts is exhausted or ctx ends.
func NewDatabase(ctx context.Context, databaseURL string, logger *logrus.Logger) (*Database, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(time.Minute)

	if err := pingWithRetry(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Connected to Postgres")
	return &Database{DB: db, logger: logger}, nil
}

func pingWithRetry(ctx context.Context, db *sql.DB, logger *logrus.Logger) error {
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}

		logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err,
		}).Warn("Postgres not reachable yet")

		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping database: %w", ctx.Err())
		case <-time.After(connectBackoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("failed to ping database after %d attempts: %w", connectAttempts, err)
}

// Migrate brings the kv_store schema up to date from the migrations embedded
// in the postgres repository package.
func (d *Database) Migrate() error {
	source, err := iofs.New(pgrepo.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	driver, err := postgres.WithInstance(d.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		d.logger.Debug("Schema already up to date")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty, fix it with the migrate CLI", version)
	}

	d.logger.WithField("version", version).Info("Schema migrated")
	return nil
}
