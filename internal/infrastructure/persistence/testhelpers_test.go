package persistence

import (
	"testing"

	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var memoryConfig = config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}

// setupShopTestDB opens a migrated in-memory database
func setupShopTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(&memoryConfig, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, AutoMigrate(db.DB))
	return db.DB
}
