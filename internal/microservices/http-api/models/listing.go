package models

import "time"

// Listing is a project posted for collaboration or buyout. The catalog that
// creates and edits listings lives elsewhere; this service only reads them.
type Listing struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	FounderID   string    `gorm:"type:uuid;not null;index" json:"founder_id"`
	Title       string    `gorm:"not null" json:"title"`
	BuyoutPrice *float64  `gorm:"type:numeric(14,2)" json:"buyout_price,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Listing) TableName() string {
	return "startups"
}
