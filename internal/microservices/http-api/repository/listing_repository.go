package repository

import (
	"context"

	"revivalhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ListingRepository is a read-only view over the listing catalog.
type ListingRepository interface {
	FindByID(ctx context.Context, id string) (*models.Listing, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Listing, error)
	IDsByFounder(ctx context.Context, founderID string) ([]string, error)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Listing, error) {
	var listings []models.Listing
	if len(ids) == 0 {
		return listings, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error
	return listings, err
}

func (r *listingRepository) IDsByFounder(ctx context.Context, founderID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("founder_id = ?", founderID).
		Pluck("id", &ids).Error
	return ids, err
}
