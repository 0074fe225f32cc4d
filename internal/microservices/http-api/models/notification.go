package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationCategory string

const (
	CategoryCollaborationRequest NotificationCategory = "collaboration-request"
	CategoryOffer                NotificationCategory = "offer"
)

// Notification is immutable after creation except for Read, which only moves
// from false to true.
type Notification struct {
	ID          string               `gorm:"primaryKey;type:uuid" json:"id"`
	RecipientID string               `gorm:"type:uuid;not null;index:idx_notif_recipient_created,priority:1" json:"recipient_id"`
	Category    NotificationCategory `gorm:"type:varchar(40);not null" json:"category"`
	Title       string               `gorm:"not null" json:"title"`
	Body        string               `gorm:"type:text;not null" json:"body"`
	StartupID   *string              `gorm:"type:uuid" json:"related_listing_id,omitempty"`
	ActorID     *string              `gorm:"type:uuid" json:"related_actor_id,omitempty"`
	SourceID    *string              `gorm:"type:uuid;uniqueIndex" json:"-"`
	Read        bool                 `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time            `gorm:"autoCreateTime;index:idx_notif_recipient_created,priority:2,sort:desc" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

func (Notification) TableName() string {
	return "notifications"
}
