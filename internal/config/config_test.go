package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("postgres defaults", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "")
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "hr")
		t.Setenv("DB_NAME", "emp")
		t.Setenv("PORT", "")
		t.Setenv("SUMMARY_CACHE_TTL_SECONDS", "")
		t.Setenv("RATE_LIMIT_RPS", "")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, DriverPostgres, cfg.StoreDriver)
		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, "disable", cfg.DBSSLMode)
		assert.Equal(t, 5*time.Minute, cfg.SummaryCacheTTL)
		assert.Zero(t, cfg.RateLimitRPS)
	})

	t.Run("postgres missing vars", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("DB_HOST", "")
		t.Setenv("DB_USER", "")
		t.Setenv("DB_NAME", "")

		_, err := Load()

		assert.EqualError(t, err, "missing env: DB_HOST, DB_USER, DB_NAME")
	})

	t.Run("mongo requires uri", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "Mongo")
		t.Setenv("MONGODB_URI", "")

		_, err := Load()

		assert.EqualError(t, err, "missing env: MONGODB_URI")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")

		_, err := Load()

		assert.EqualError(t, err, "unsupported STORE_DRIVER: sqlite")
	})

	t.Run("bad numbers fall back", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "mongo")
		t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
		t.Setenv("SUMMARY_CACHE_TTL_SECONDS", "soon")
		t.Setenv("RATE_LIMIT_RPS", "2.5")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, 5*time.Minute, cfg.SummaryCacheTTL)
		assert.Equal(t, 2.5, cfg.RateLimitRPS)
		assert.Equal(t, "emp_mgmt", cfg.MongoDatabase)
	})
}
