package repository

import (
	"context"
	"time"

	"revivalhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	// CreateFromOutbox inserts the notification and marks the outbox entry
	// delivered in one transaction. Re-delivery of the same source is a no-op.
	CreateFromOutbox(ctx context.Context, notification *models.Notification, outboxID string) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	FindForRecipient(ctx context.Context, notificationID, recipientID string) (*models.Notification, error)
	MarkRead(ctx context.Context, notificationID, recipientID string) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts the notification. A notification whose source already
// produced one is skipped without error.
func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	db := r.db.WithContext(ctx)
	if notification.SourceID != nil {
		db = db.Clauses(onSourceConflict())
	}
	return db.Create(notification).Error
}

func (r *notificationRepository) CreateFromOutbox(ctx context.Context, notification *models.Notification, outboxID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(onSourceConflict()).Create(notification).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.NotificationOutbox{}).
			Where("id = ? AND delivered_at IS NULL", outboxID).
			Update("delivered_at", time.Now()).Error
	})
}

// ListByRecipient returns the newest notifications first. A non-positive
// limit returns all of them.
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	q := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) FindForRecipient(ctx context.Context, notificationID, recipientID string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("read", true).Error
}

// DeleteReadBefore removes read notifications created before cutoff.
// Unread notifications are never pruned.
func (r *notificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func onSourceConflict() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_id"}},
		DoNothing: true,
	}
}
