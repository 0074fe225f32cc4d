package database

import (
	"context"
	"fmt"
	"time"

	"revivalhub/internal/microservices/http-api/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a small pgx pool used for health checks.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	poolCfg.MaxConns = 2
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		// close the pool if ping fails to avoid resource leak
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

// OpenGorm opens the GORM handle used by the repositories.
func OpenGorm(databaseURL string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// migrations are applied in ID order and recorded in schema_migrations.
var migrations = []*gormigrate.Migration{
	{
		ID: "202601150900_initial",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.User{},
				&models.Listing{},
				&models.Collaboration{},
				&models.Notification{},
				&models.NotificationOutbox{},
			)
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("notification_outbox", "notifications", "collaborations")
		},
	},
	{
		// the relay only scans undelivered entries
		ID: "202602020900_outbox_pending_index",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_outbox_pending
				ON notification_outbox (created_at) WHERE delivered_at IS NULL`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DROP INDEX IF EXISTS idx_outbox_pending`).Error
		},
	},
}

// Migrate creates or updates the tables this service owns, plus the listing
// and user tables it reads.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, &gormigrate.Options{
		TableName:      "schema_migrations",
		IDColumnName:   "id",
		IDColumnSize:   255,
		UseTransaction: true,
	}, migrations)
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
