package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database owns the gorm handle and its connection pool
type Database struct {
	DB *gorm.DB
}

// Open connects to the configured database and sizes its pool. Statements
// are reported through log; nil keeps gorm silent.
func Open(cfg *config.DatabaseConfig, log gormlogger.Interface) (*Database, error) {
	if log == nil {
		log = gormlogger.Discard
	}
	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		Logger:                 log,
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver != "sqlite",
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	d := &Database{DB: db}
	sqlDB, err := d.sql()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" && cfg.Path == ":memory:" {
		// every connection would get its own empty database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return d, nil
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, err)
	}
	return d, nil
}

func dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == "sqlite" {
		return sqlite.Open(cfg.DSN())
	}
	return postgres.Open(cfg.DSN())
}

func (d *Database) sql() (*sql.DB, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return sqlDB, nil
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.sql()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.sql()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// forShop restricts a query to one shop's rows. A nil shop ID is a caller
// bug and panics rather than reading every shop.
func forShop(shopID uuid.UUID) func(*gorm.DB) *gorm.DB {
	if shopID == uuid.Nil {
		panic("persistence: query scoped to nil shop ID")
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("shop_id = ?", shopID)
	}
}
