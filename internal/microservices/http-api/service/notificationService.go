package service

import (
	"context"
	"errors"
	"time"

	"revivalhub/internal/apperrors"
	"revivalhub/internal/metrics"
	"revivalhub/internal/microservices/http-api/dto"
	"revivalhub/internal/microservices/http-api/models"
	"revivalhub/internal/microservices/http-api/repository"
	"revivalhub/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotifyInput describes a notification to create. SourceID, when set, makes
// the write idempotent: a second notification for the same source is dropped.
type NotifyInput struct {
	RecipientID string
	Category    models.NotificationCategory
	Title       string
	Body        string
	ListingID   *string
	ActorID     *string
	SourceID    *string
}

type NotificationService interface {
	Notify(ctx context.Context, in NotifyInput) (*models.Notification, error)
	Deliver(ctx context.Context, entry *models.NotificationOutbox) error
	List(ctx context.Context, actor shared.Actor, limit int) ([]dto.NotificationResponse, error)
	UnreadCount(ctx context.Context, actor shared.Actor) (int64, error)
	MarkRead(ctx context.Context, actor shared.Actor, notificationID string) (*models.Notification, error)
	PruneRead(ctx context.Context, olderThan time.Time) (int64, error)
}

type notificationService struct {
	repo         repository.NotificationRepository
	directory    DirectoryService
	defaultLimit int
	log          *zap.Logger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	directory DirectoryService,
	defaultLimit int,
	log *zap.Logger,
) NotificationService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &notificationService{
		repo:         repo,
		directory:    directory,
		defaultLimit: defaultLimit,
		log:          log,
	}
}

func (s *notificationService) Notify(ctx context.Context, in NotifyInput) (*models.Notification, error) {
	n := &models.Notification{
		RecipientID: in.RecipientID,
		Category:    in.Category,
		Title:       in.Title,
		Body:        in.Body,
		StartupID:   in.ListingID,
		ActorID:     in.ActorID,
		SourceID:    in.SourceID,
		Read:        false,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apperrors.Store("create notification", err)
	}
	metrics.NotificationsCreated.WithLabelValues(string(n.Category)).Inc()
	return n, nil
}

// Deliver writes the notification for an outbox entry and marks the entry
// delivered. Delivering the same entry twice leaves one notification.
func (s *notificationService) Deliver(ctx context.Context, entry *models.NotificationOutbox) error {
	listingID := entry.StartupID
	actorID := entry.ActorID
	sourceID := entry.CollaborationID
	n := &models.Notification{
		RecipientID: entry.RecipientID,
		Category:    entry.Category,
		Title:       entry.Title,
		Body:        entry.Body,
		StartupID:   &listingID,
		ActorID:     &actorID,
		SourceID:    &sourceID,
	}
	if err := s.repo.CreateFromOutbox(ctx, n, entry.ID); err != nil {
		return apperrors.Store("deliver notification", err)
	}
	metrics.NotificationsCreated.WithLabelValues(string(n.Category)).Inc()
	return nil
}

// List returns the actor's newest notifications. A non-positive limit uses the
// configured default.
func (s *notificationService) List(ctx context.Context, actor shared.Actor, limit int) ([]dto.NotificationResponse, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	notifications, err := s.repo.ListByRecipient(ctx, actor.UserID, limit)
	if err != nil {
		return nil, apperrors.Store("list notifications", err)
	}

	result := make([]dto.NotificationResponse, 0, len(notifications))
	if len(notifications) == 0 {
		return result, nil
	}

	var listingIDs, actorIDs []string
	for _, n := range notifications {
		if n.StartupID != nil {
			listingIDs = append(listingIDs, *n.StartupID)
		}
		if n.ActorID != nil {
			actorIDs = append(actorIDs, *n.ActorID)
		}
	}
	listings, err := s.directory.Listings(ctx, listingIDs)
	if err != nil {
		return nil, err
	}
	actors, err := s.directory.UserProfiles(ctx, actorIDs)
	if err != nil {
		return nil, err
	}

	for _, n := range notifications {
		item := dto.NotificationResponse{
			ID:        n.ID,
			Category:  n.Category,
			Title:     n.Title,
			Body:      n.Body,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
		if n.StartupID != nil {
			if l, ok := listings[*n.StartupID]; ok {
				item.RelatedListing = &dto.ListingSummary{ID: l.ID, Title: l.Title, BuyoutPrice: l.BuyoutPrice}
			}
		}
		if n.ActorID != nil {
			if u, ok := actors[*n.ActorID]; ok {
				item.RelatedActor = &dto.UserSummary{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, actor shared.Actor) (int64, error) {
	count, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, apperrors.Store("count unread notifications", err)
	}
	return count, nil
}

// MarkRead flags a notification as read. A notification that does not exist
// and one that belongs to someone else are reported the same way.
func (s *notificationService) MarkRead(ctx context.Context, actor shared.Actor, notificationID string) (*models.Notification, error) {
	parsed, err := uuid.Parse(notificationID)
	if err != nil {
		return nil, apperrors.NotFound("notification not found")
	}
	notificationID = parsed.String()
	n, err := s.repo.FindForRecipient(ctx, notificationID, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("notification not found")
		}
		return nil, apperrors.Store("find notification", err)
	}
	if n.Read {
		return n, nil
	}
	if err := s.repo.MarkRead(ctx, notificationID, actor.UserID); err != nil {
		return nil, apperrors.Store("mark notification read", err)
	}
	n.Read = true
	return n, nil
}

// PruneRead deletes read notifications created before olderThan.
func (s *notificationService) PruneRead(ctx context.Context, olderThan time.Time) (int64, error) {
	deleted, err := s.repo.DeleteReadBefore(ctx, olderThan)
	if err != nil {
		return 0, apperrors.Store("prune read notifications", err)
	}
	if deleted > 0 {
		s.log.Info("pruned read notifications", zap.Int64("deleted", deleted), zap.Time("before", olderThan))
	}
	return deleted, nil
}
