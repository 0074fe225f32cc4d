package repository

import (
	"context"

	"revivalhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CollaborationRepository interface {
	// CreateWithOutbox stores the request and its pending owner notification atomically.
	CreateWithOutbox(ctx context.Context, collab *models.Collaboration, entry *models.NotificationOutbox) error
	ListPendingByStartups(ctx context.Context, startupIDs []string) ([]models.Collaboration, error)
}

type collaborationRepository struct {
	db *gorm.DB
}

func NewCollaborationRepository(db *gorm.DB) CollaborationRepository {
	return &collaborationRepository{db: db}
}

func (r *collaborationRepository) CreateWithOutbox(ctx context.Context, collab *models.Collaboration, entry *models.NotificationOutbox) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Requester", "Startup").Create(collab).Error; err != nil {
			return err
		}
		entry.CollaborationID = collab.ID
		return tx.Create(entry).Error
	})
}

// ListPendingByStartups returns pending requests on the given listings, newest first.
func (r *collaborationRepository) ListPendingByStartups(ctx context.Context, startupIDs []string) ([]models.Collaboration, error) {
	var collabs []models.Collaboration
	if len(startupIDs) == 0 {
		return collabs, nil
	}
	err := r.db.WithContext(ctx).
		Where("startup_id IN ? AND status = ?", startupIDs, models.StatusPending).
		Order("created_at DESC").
		Find(&collabs).Error
	return collabs, err
}
