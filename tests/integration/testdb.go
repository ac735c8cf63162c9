// Package integration runs the repositories and the HTTP API against real
// PostgreSQL and Redis containers. Skipped with -short.
package integration

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	gormlogger "gorm.io/gorm/logger"
)

const postgresImage = "postgres:16-alpine"

// One migrated PostgreSQL serves the whole package; tests keep their rows
// apart by using a fresh shop ID each.
var shared struct {
	mu        sync.Mutex
	container *tcpostgres.PostgresContainer
	cfg       config.DatabaseConfig
}

// NewSharedTestDB opens a connection to the package database, starting and
// migrating it on first use. The connection closes with the test.
func NewSharedTestDB(t *testing.T) *persistence.Database {
	t.Helper()
	cfg := sharedConfig(t)
	db := open(t, cfg)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sharedConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.container != nil {
		return shared.cfg
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("shop_test"),
		tcpostgres.WithUsername("shop"),
		tcpostgres.WithPassword("shop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "failed to start PostgreSQL")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Driver:          "postgres",
		Host:            host,
		Port:            port.Int(),
		User:            "shop",
		Password:        "shop",
		DBName:          "shop_test",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
	}
	db := open(t, cfg)
	defer db.Close()
	require.NoError(t, persistence.AutoMigrate(db.DB), "failed to migrate schema")

	shared.container, shared.cfg = container, cfg
	return cfg
}

// open logs statements through the test log when TEST_DB_DEBUG is set
func open(t *testing.T, cfg config.DatabaseConfig) *persistence.Database {
	t.Helper()
	level := gormlogger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = gormlogger.Info
	}
	db, err := persistence.Open(&cfg, logger.NewGormLogger(zaptest.NewLogger(t), level))
	require.NoError(t, err, "failed to connect to PostgreSQL")
	return db
}

// terminateShared stops the package database after the last test
func terminateShared() {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = shared.container.Terminate(ctx)
	shared.container = nil
}
