package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CollaborationKind string

const (
	KindCollaborate CollaborationKind = "collaborate"
	KindOffer       CollaborationKind = "offer"
)

// Valid reports whether k is one of the accepted request kinds.
func (k CollaborationKind) Valid() bool {
	return k == KindCollaborate || k == KindOffer
}

type CollaborationStatus string

const (
	StatusPending  CollaborationStatus = "pending"
	StatusAccepted CollaborationStatus = "accepted"
	StatusRejected CollaborationStatus = "rejected"
)

// Collaboration is a request to collaborate on, or an offer to buy, a listing.
// Status transitions beyond pending belong to the approval flow and are not
// performed here.
type Collaboration struct {
	ID          string              `gorm:"primaryKey;type:uuid" json:"id"`
	StartupID   string              `gorm:"type:uuid;not null;index:idx_collab_startup_status" json:"listing_id"`
	RequesterID string              `gorm:"type:uuid;not null;index" json:"requester_id"`
	Kind        CollaborationKind   `gorm:"type:varchar(20);not null" json:"kind"`
	Message     string              `gorm:"type:text;not null" json:"message"`
	OfferAmount *float64            `gorm:"type:numeric(14,2)" json:"offer_amount,omitempty"`
	Status      CollaborationStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_collab_startup_status" json:"status"`
	CreatedAt   time.Time           `gorm:"autoCreateTime;index" json:"created_at"`

	// Associations
	Requester *User    `gorm:"foreignKey:RequesterID" json:"-"`
	Startup   *Listing `gorm:"foreignKey:StartupID" json:"-"`
}

func (c *Collaboration) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	return
}

func (Collaboration) TableName() string {
	return "collaborations"
}
