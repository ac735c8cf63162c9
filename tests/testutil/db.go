// Package testutil holds shared fixtures for package and integration tests:
// a sqlmock-backed gorm handle, stable IDs, an event recorder and a JSON
// client for the HTTP API.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// idNamespace seeds NewTestUUID so fixture IDs are stable across runs.
var idNamespace = uuid.MustParse("3f1c2a4e-8b7d-4c55-9e60-1a2b3c4d5e6f")

// MockDB is a gorm handle speaking the postgres dialect against sqlmock.
type MockDB struct {
	DB   *gorm.DB
	Mock sqlmock.Sqlmock
	conn *sql.DB
}

// NewMockDB opens a MockDB. Unmet expectations fail the test at cleanup.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	m := &MockDB{DB: db, Mock: mock, conn: conn}
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet(), "unmet database expectations")
	})
	return m
}

func (m *MockDB) Close() error {
	return m.conn.Close()
}

// NewTestUUID derives a UUID from seed; equal seeds give equal IDs.
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte(seed))
}

func TestShopID() uuid.UUID     { return NewTestUUID("shop") }
func TestSupplierID() uuid.UUID { return NewTestUUID("supplier") }
