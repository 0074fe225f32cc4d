package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"revivalhub/internal/apperrors"
	"revivalhub/internal/metrics"
	"revivalhub/internal/microservices/http-api/dto"
	"revivalhub/internal/microservices/http-api/models"
	"revivalhub/internal/microservices/http-api/repository"
	"revivalhub/internal/shared"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// CreateCollaborationInput is the caller-supplied part of a request. The
// requester always comes from the verified actor.
type CreateCollaborationInput struct {
	ListingID   string   `json:"listing_id" validate:"required"`
	Kind        string   `json:"kind" validate:"required"`
	Message     string   `json:"message" validate:"required"`
	OfferAmount *float64 `json:"offer_amount"`
}

type CollaborationService interface {
	// Create stores a pending request and notifies the listing owner. When the
	// request is stored but the notification is not, the record is returned
	// together with an apperrors.ErrNotificationPending error.
	Create(ctx context.Context, actor shared.Actor, in CreateCollaborationInput) (*models.Collaboration, error)
	// ListIncoming returns pending requests on the actor's listings, newest first.
	ListIncoming(ctx context.Context, actor shared.Actor) ([]dto.IncomingCollaboration, error)
}

// NotificationDeliverer writes the notification held by an outbox entry.
type NotificationDeliverer interface {
	Deliver(ctx context.Context, entry *models.NotificationOutbox) error
}

type collaborationService struct {
	repo      repository.CollaborationRepository
	directory DirectoryService
	deliverer NotificationDeliverer
	validate  *validator.Validate
	log       *zap.Logger
}

func NewCollaborationService(
	repo repository.CollaborationRepository,
	directory DirectoryService,
	deliverer NotificationDeliverer,
	log *zap.Logger,
) CollaborationService {
	return &collaborationService{
		repo:      repo,
		directory: directory,
		deliverer: deliverer,
		validate:  newValidator(),
		log:       log,
	}
}

func (s *collaborationService) Create(ctx context.Context, actor shared.Actor, in CreateCollaborationInput) (*models.Collaboration, error) {
	in.ListingID = strings.TrimSpace(in.ListingID)
	in.Kind = strings.TrimSpace(in.Kind)
	in.Message = strings.TrimSpace(in.Message)

	if err := s.checkInput(in); err != nil {
		metrics.CollaborationsRejected.WithLabelValues("validation").Inc()
		return nil, err
	}
	kind := models.CollaborationKind(in.Kind)

	listing, err := s.directory.Listing(ctx, in.ListingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.CollaborationsRejected.WithLabelValues("listing_not_found").Inc()
		}
		return nil, err
	}
	if listing.OwnerID == actor.UserID {
		metrics.CollaborationsRejected.WithLabelValues("self_request").Inc()
		return nil, apperrors.Conflict("cannot request own listing")
	}

	collab := &models.Collaboration{
		StartupID:   listing.ID,
		RequesterID: actor.UserID,
		Kind:        kind,
		Message:     in.Message,
		OfferAmount: in.OfferAmount,
		Status:      models.StatusPending,
	}
	entry := &models.NotificationOutbox{
		RecipientID: listing.OwnerID,
		Category:    categoryFor(kind),
		Title:       requestTitle(kind),
		Body:        requestBody(s.actorName(ctx, actor), kind, listing.Title),
		StartupID:   listing.ID,
		ActorID:     actor.UserID,
	}

	if err := s.repo.CreateWithOutbox(ctx, collab, entry); err != nil {
		return nil, apperrors.Store("create collaboration", err)
	}
	metrics.CollaborationsCreated.WithLabelValues(string(kind)).Inc()

	if err := s.deliverer.Deliver(ctx, entry); err != nil {
		metrics.NotificationDeliveryFailures.WithLabelValues("sync").Inc()
		s.log.Warn("owner notification deferred to relay",
			zap.String("collaboration_id", collab.ID),
			zap.String("outbox_id", entry.ID),
			zap.Error(err),
		)
		return collab, apperrors.NotificationPending(err)
	}

	s.log.Info("collaboration request created",
		zap.String("collaboration_id", collab.ID),
		zap.String("listing_id", listing.ID),
		zap.String("kind", string(kind)),
	)
	return collab, nil
}

// checkInput applies the rules in order: required fields, kind, then the
// kind-dependent amount rule.
func (s *collaborationService) checkInput(in CreateCollaborationInput) error {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperrors.Validation(fmt.Sprintf("%s is required", verrs[0].Field()))
		}
		return apperrors.Validation("invalid request")
	}

	kind := models.CollaborationKind(in.Kind)
	if !kind.Valid() {
		return apperrors.Validation("kind must be one of: collaborate, offer")
	}

	switch kind {
	case models.KindOffer:
		if in.OfferAmount == nil {
			return apperrors.Validation("offer_amount is required for an offer")
		}
		amount := *in.OfferAmount
		if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
			return apperrors.Validation("offer_amount must be a positive number")
		}
	case models.KindCollaborate:
		if in.OfferAmount != nil {
			return apperrors.Validation("offer_amount is only allowed for an offer")
		}
	}
	return nil
}

// actorName prefers the name carried by the token and falls back to the
// directory, then to a generic name.
func (s *collaborationService) actorName(ctx context.Context, actor shared.Actor) string {
	if actor.Username != "" {
		return actor.Username
	}
	profiles, err := s.directory.UserProfiles(ctx, []string{actor.UserID})
	if err != nil {
		s.log.Warn("actor name lookup failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return actor.DisplayName()
	}
	if p, ok := profiles[actor.UserID]; ok && p.Username != "" {
		return p.Username
	}
	return actor.DisplayName()
}

func (s *collaborationService) ListIncoming(ctx context.Context, actor shared.Actor) ([]dto.IncomingCollaboration, error) {
	listingIDs, err := s.directory.ListingIDsOwnedBy(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.IncomingCollaboration, 0)
	if len(listingIDs) == 0 {
		return result, nil
	}

	collabs, err := s.repo.ListPendingByStartups(ctx, listingIDs)
	if err != nil {
		return nil, apperrors.Store("list incoming collaborations", err)
	}
	if len(collabs) == 0 {
		return result, nil
	}

	requesterIDs := make([]string, 0, len(collabs))
	for _, c := range collabs {
		requesterIDs = append(requesterIDs, c.RequesterID)
	}
	listings, err := s.directory.Listings(ctx, listingIDs)
	if err != nil {
		return nil, err
	}
	requesters, err := s.directory.UserProfiles(ctx, requesterIDs)
	if err != nil {
		return nil, err
	}

	for _, c := range collabs {
		item := dto.IncomingCollaboration{
			ID:          c.ID,
			Kind:        c.Kind,
			Message:     c.Message,
			OfferAmount: c.OfferAmount,
			Status:      c.Status,
			CreatedAt:   c.CreatedAt,
			Listing:     dto.ListingSummary{ID: c.StartupID},
			Requester:   dto.UserSummary{ID: c.RequesterID},
		}
		if l, ok := listings[c.StartupID]; ok {
			item.Listing.Title = l.Title
			item.Listing.BuyoutPrice = l.BuyoutPrice
		}
		if u, ok := requesters[c.RequesterID]; ok {
			item.Requester.Username = u.Username
			item.Requester.Email = u.Email
			item.Requester.AvatarURL = u.AvatarURL
		}
		result = append(result, item)
	}
	return result, nil
}

func categoryFor(kind models.CollaborationKind) models.NotificationCategory {
	if kind == models.KindOffer {
		return models.CategoryOffer
	}
	return models.CategoryCollaborationRequest
}

// requestTitle renders "Collaborate Request" or "Offer Request".
func requestTitle(kind models.CollaborationKind) string {
	k := string(kind)
	return strings.ToUpper(k[:1]) + k[1:] + " Request"
}

func requestBody(actorName string, kind models.CollaborationKind, listingTitle string) string {
	return fmt.Sprintf(`%s wants to %s on "%s"`, actorName, kind, listingTitle)
}

// newValidator reports struct fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
