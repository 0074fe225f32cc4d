package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationOutbox holds the rendered owner notification for a collaboration
// request. It is written in the same transaction as the request, so a
// notification can always be (re)delivered even if the process dies between
// the two writes.
type NotificationOutbox struct {
	ID              string               `gorm:"primaryKey;type:uuid" json:"id"`
	CollaborationID string               `gorm:"type:uuid;not null;uniqueIndex" json:"collaboration_id"`
	RecipientID     string               `gorm:"type:uuid;not null" json:"recipient_id"`
	Category        NotificationCategory `gorm:"type:varchar(40);not null" json:"category"`
	Title           string               `gorm:"not null" json:"title"`
	Body            string               `gorm:"type:text;not null" json:"body"`
	StartupID       string               `gorm:"type:uuid;not null" json:"listing_id"`
	ActorID         string               `gorm:"type:uuid;not null" json:"actor_id"`
	Attempts        int                  `gorm:"not null;default:0" json:"attempts"`
	LastError       string               `gorm:"type:text" json:"last_error,omitempty"`
	DeliveredAt     *time.Time           `gorm:"index" json:"delivered_at,omitempty"`
	CreatedAt       time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *NotificationOutbox) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}

func (NotificationOutbox) TableName() string {
	return "notification_outbox"
}
