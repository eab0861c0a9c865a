package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/repository"
	"github.com/Kerhoff/planmyevents/internal/repository/memory"
	pgrepo "github.com/Kerhoff/planmyevents/internal/repository/postgres"
	redisrepo "github.com/Kerhoff/planmyevents/internal/repository/redis"
	"github.com/Kerhoff/planmyevents/internal/repository/sqlite"
)

// OpenRepository opens the key-value backend selected by StorageDriver.
// Closing the returned repository also releases the underlying connection.
func (c *Config) OpenRepository(ctx context.Context, logger *logrus.Logger) (repository.KVRepository, error) {
	logger.WithField("driver", c.StorageDriver).Info("Opening storage backend")

	switch c.StorageDriver {
	case DriverMemory:
		return memory.NewKVRepository(), nil

	case DriverSQLite:
		repo, err := sqlite.NewKVRepository(c.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return repo, nil

	case DriverPostgres:
		db, err := NewDatabase(ctx, c.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
		return &dbBackedRepository{KVRepository: pgrepo.NewKVRepository(db.DB), db: db}, nil

	case DriverRedis:
		repo, err := redisrepo.NewKVRepository(ctx, c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		return repo, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
}

// dbBackedRepository closes the database together with the repository
type dbBackedRepository struct {
	repository.KVRepository
	db *Database
}

func (r *dbBackedRepository) Close() error {
	var result *multierror.Error
	if err := r.KVRepository.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := r.db.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
