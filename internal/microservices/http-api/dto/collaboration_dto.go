package dto

import (
	"time"

	"revivalhub/internal/microservices/http-api/models"
)

// CreateCollaborationRequest is the body of POST /collaborations. Field rules
// are enforced by the collaboration service so the error order is stable.
type CreateCollaborationRequest struct {
	ListingID   string   `json:"listing_id"`
	Kind        string   `json:"kind"`
	Message     string   `json:"message"`
	OfferAmount *float64 `json:"offer_amount,omitempty"`
}

// CreateCollaborationResponse wraps the saved record when notification
// delivery was deferred (202).
type CreateCollaborationResponse struct {
	Collaboration       *models.Collaboration `json:"collaboration"`
	NotificationPending bool                  `json:"notification_pending"`
	Warning             string                `json:"warning,omitempty"`
}

type ListingSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	BuyoutPrice *float64 `json:"buyout_price,omitempty"`
}

type UserSummary struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// IncomingCollaboration is a pending request on one of the caller's listings.
type IncomingCollaboration struct {
	ID          string                     `json:"id"`
	Kind        models.CollaborationKind   `json:"kind"`
	Message     string                     `json:"message"`
	OfferAmount *float64                   `json:"offer_amount,omitempty"`
	Status      models.CollaborationStatus `json:"status"`
	CreatedAt   time.Time                  `json:"created_at"`
	Listing     ListingSummary             `json:"listing"`
	Requester   UserSummary                `json:"requester"`
}
