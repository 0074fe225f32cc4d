package dto

import (
	"time"

	"revivalhub/internal/microservices/http-api/models"
)

// NotificationResponse is a feed item with its weak references resolved for
// display. Missing referents are left nil.
type NotificationResponse struct {
	ID             string                      `json:"id"`
	Category       models.NotificationCategory `json:"category"`
	Title          string                      `json:"title"`
	Body           string                      `json:"body"`
	Read           bool                        `json:"read"`
	CreatedAt      time.Time                   `json:"created_at"`
	RelatedListing *ListingSummary             `json:"related_listing,omitempty"`
	RelatedActor   *UserSummary                `json:"related_actor,omitempty"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
