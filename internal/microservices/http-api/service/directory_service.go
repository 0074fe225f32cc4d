package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"revivalhub/internal/apperrors"
	"revivalhub/internal/microservices/http-api/models"
	"revivalhub/internal/microservices/http-api/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListingInfo is the directory's view of a listing.
type ListingInfo struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Title       string   `json:"title"`
	BuyoutPrice *float64 `json:"buyout_price,omitempty"`
}

// UserProfile is the display identity of a user.
type UserProfile struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// DirectoryService resolves listing and user references.
//
// Listing always reads the store, since ownership decides whether a request is
// allowed. The batch lookups only feed display text and go through the cache.
type DirectoryService interface {
	Listing(ctx context.Context, id string) (*ListingInfo, error)
	ListingIDsOwnedBy(ctx context.Context, ownerID string) ([]string, error)
	Listings(ctx context.Context, ids []string) (map[string]ListingInfo, error)
	UserProfiles(ctx context.Context, ids []string) (map[string]UserProfile, error)
}

type directoryService struct {
	listings repository.ListingRepository
	users    repository.UserRepository
	cache    *redis.Client // nil disables caching
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewDirectoryService(
	listings repository.ListingRepository,
	users repository.UserRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	log *zap.Logger,
) DirectoryService {
	return &directoryService{
		listings: listings,
		users:    users,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (s *directoryService) Listing(ctx context.Context, id string) (*ListingInfo, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound("listing not found")
	}
	listing, err := s.listings.FindByID(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("listing not found")
		}
		return nil, apperrors.Store("find listing", err)
	}
	info := toListingInfo(listing)
	return &info, nil
}

func (s *directoryService) ListingIDsOwnedBy(ctx context.Context, ownerID string) ([]string, error) {
	ids, err := s.listings.IDsByFounder(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Store("list owned listings", err)
	}
	return ids, nil
}

func (s *directoryService) Listings(ctx context.Context, ids []string) (map[string]ListingInfo, error) {
	return cachedLookup(ctx, s, "directory:listing:", ids, func(ctx context.Context, missing []string) (map[string]ListingInfo, error) {
		rows, err := s.listings.FindByIDs(ctx, missing)
		if err != nil {
			return nil, apperrors.Store("load listings", err)
		}
		out := make(map[string]ListingInfo, len(rows))
		for i := range rows {
			out[rows[i].ID] = toListingInfo(&rows[i])
		}
		return out, nil
	})
}

func (s *directoryService) UserProfiles(ctx context.Context, ids []string) (map[string]UserProfile, error) {
	return cachedLookup(ctx, s, "directory:user:", ids, func(ctx context.Context, missing []string) (map[string]UserProfile, error) {
		rows, err := s.users.FindByIDs(ctx, missing)
		if err != nil {
			return nil, apperrors.Store("load users", err)
		}
		out := make(map[string]UserProfile, len(rows))
		for _, u := range rows {
			out[u.ID] = UserProfile{
				ID:        u.ID,
				Username:  u.Username,
				Email:     u.Email,
				AvatarURL: u.AvatarURL,
			}
		}
		return out, nil
	})
}

func toListingInfo(l *models.Listing) ListingInfo {
	return ListingInfo{
		ID:          l.ID,
		OwnerID:     l.FounderID,
		Title:       l.Title,
		BuyoutPrice: l.BuyoutPrice,
	}
}

// cachedLookup resolves ids through the cache first and loads the rest from
// the store, writing them back. Ids that are not uuids or that resolve to
// nothing are absent from the result. Cache errors only cost a store read.
func cachedLookup[T any](
	ctx context.Context,
	s *directoryService,
	prefix string,
	ids []string,
	load func(ctx context.Context, missing []string) (map[string]T, error),
) (map[string]T, error) {
	result := make(map[string]T, len(ids))
	wanted := uniqueUUIDs(ids)
	if len(wanted) == 0 {
		return result, nil
	}

	missing := wanted
	if s.cache != nil {
		keys := make([]string, len(wanted))
		for i, id := range wanted {
			keys[i] = cacheKey(prefix, id)
		}
		vals, err := s.cache.MGet(ctx, keys...).Result()
		if err != nil {
			s.log.Warn("directory cache read failed", zap.String("prefix", prefix), zap.Error(err))
		} else {
			missing = nil
			for i, v := range vals {
				raw, ok := v.(string)
				if !ok {
					missing = append(missing, wanted[i])
					continue
				}
				var item T
				if err := json.Unmarshal([]byte(raw), &item); err != nil {
					missing = append(missing, wanted[i])
					continue
				}
				result[wanted[i]] = item
			}
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	loaded, err := load(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, item := range loaded {
		result[id] = item
	}

	if s.cache != nil && len(loaded) > 0 {
		pipe := s.cache.Pipeline()
		for id, item := range loaded {
			data, err := json.Marshal(item)
			if err != nil {
				continue
			}
			pipe.Set(ctx, cacheKey(prefix, id), data, s.cacheTTL)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Warn("directory cache write failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}
	return result, nil
}

func uniqueUUIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

func cacheKey(prefix, id string) string {
	return fmt.Sprintf("%s%s", prefix, id)
}
