package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"LOG_LEVEL", "LOG_FORMAT", "PORT", "PROMETHEUS_PORT", "TELEGRAM_TOKEN",
	"STORAGE_DRIVER", "STORAGE_PREFIX", "SQLITE_PATH", "DATABASE_URL", "REDIS_URL",
	"BACKUP_DIR", "BACKUP_S3_BUCKET", "BACKUP_S3_REGION", "BACKUP_S3_ENDPOINT", "BACKUP_INTERVAL",
	"RATE_LIMIT", "RATE_BURST", "CORS_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "9090", cfg.PrometheusPort)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, "planmyevents_", cfg.StoragePrefix)
	assert.Equal(t, time.Hour, cfg.BackupInterval)
	assert.Equal(t, 10.0, cfg.RateLimit)
	assert.Equal(t, 20, cfg.RateBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.TelegramToken)
	assert.False(t, cfg.BackupEnabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("BACKUP_S3_BUCKET", "backups")
	t.Setenv("BACKUP_INTERVAL", "15m")
	t.Setenv("RATE_LIMIT", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.StorageDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Minute, cfg.BackupInterval)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.True(t, cfg.BackupEnabled())
}

func TestLoad_CollectsAllErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("BACKUP_INTERVAL", "soon")
	t.Setenv("RATE_BURST", "many")

	_, err := Load()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
	assert.ErrorContains(t, err, "DATABASE_URL")
	assert.ErrorContains(t, err, "BACKUP_INTERVAL")
	assert.ErrorContains(t, err, "RATE_BURST")
}

func TestValidate(t *testing.T) {
	cfg := &Config{StorageDriver: "cassandra", Port: "8080"}
	assert.ErrorContains(t, cfg.Validate(), "unknown STORAGE_DRIVER")

	cfg = &Config{StorageDriver: DriverSQLite, Port: "8080", BackupDir: "/tmp/x", BackupS3Bucket: "b"}
	assert.ErrorContains(t, cfg.Validate(), "mutually exclusive")

	cfg = &Config{StorageDriver: DriverMemory, Port: "8080"}
	assert.NoError(t, cfg.Validate())
}

func TestOpenRepository(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, err := (&Config{StorageDriver: DriverMemory}).OpenRepository(ctx, logger)
		require.NoError(t, err)
		defer repo.Close()
		require.NoError(t, repo.Set(ctx, "k", []byte("v")))
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "planner.db")
		repo, err := (&Config{StorageDriver: DriverSQLite, SQLitePath: path}).OpenRepository(ctx, logger)
		require.NoError(t, err)
		defer repo.Close()
		require.NoError(t, repo.Set(ctx, "k", []byte("v")))
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		repo, err := (&Config{StorageDriver: DriverRedis, RedisURL: "redis://" + mr.Addr()}).OpenRepository(ctx, logger)
		require.NoError(t, err)
		defer repo.Close()
		require.NoError(t, repo.Set(ctx, "k", []byte("v")))
		assert.True(t, mr.Exists("k"))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := (&Config{StorageDriver: "tape"}).OpenRepository(ctx, logger)
		assert.Error(t, err)
	})
}
