package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amatak/storefront-backend/pkg/config"
	"github.com/amatak/storefront-backend/pkg/logger"
)

type record struct {
	Key       string `gorm:"primaryKey;column:key;size:191"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

func (record) TableName() string { return "kv_records" }

// GormStore persists records in a single key/value table via GORM. It is the
// default durable backend (sqlite file, or postgres by config).
type GormStore struct {
	conn *gorm.DB
}

// NewGormStore boots a GORM-backed store and migrates the record table.
func NewGormStore(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*GormStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	applyPoolSettings(sqlDB, cfg)

	if err := conn.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrating kv table: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "database connection established")
	}

	return &GormStore{conn: conn}, nil
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// Get returns the value stored at key or ErrNotFound.
func (g *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec record
	err := g.conn.WithContext(ctx).First(&rec, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec.Value, nil
}

// Set upserts the value stored at key.
func (g *GormStore) Set(ctx context.Context, key string, value []byte) error {
	rec := record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return g.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).
		Error
}

// Delete removes the record at key. Deleting an absent key is a no-op.
func (g *GormStore) Delete(ctx context.Context, key string) error {
	return g.conn.WithContext(ctx).Delete(&record{}, "key = ?", key).Error
}

// Ping verifies the datasource is reachable.
func (g *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (g *GormStore) Close() error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
