package repository

import (
	"context"
	"time"

	"revivalhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type OutboxRepository interface {
	ListUndelivered(ctx context.Context, createdBefore time.Time, maxAttempts, limit int) ([]models.NotificationOutbox, error)
	CountUndelivered(ctx context.Context) (int64, error)
	RecordFailure(ctx context.Context, id string, cause string) error
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

// ListUndelivered returns the oldest undelivered entries that still have attempts left.
func (r *outboxRepository) ListUndelivered(ctx context.Context, createdBefore time.Time, maxAttempts, limit int) ([]models.NotificationOutbox, error) {
	var entries []models.NotificationOutbox
	err := r.db.WithContext(ctx).
		Where("delivered_at IS NULL AND attempts < ? AND created_at < ?", maxAttempts, createdBefore).
		Order("created_at ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *outboxRepository) CountUndelivered(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.NotificationOutbox{}).
		Where("delivered_at IS NULL").
		Count(&count).Error
	return count, err
}

func (r *outboxRepository) RecordFailure(ctx context.Context, id string, cause string) error {
	return r.db.WithContext(ctx).
		Model(&models.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": cause,
		}).Error
}
