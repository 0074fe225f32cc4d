package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"revivalhub/internal/apperrors"
	"revivalhub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errStoreDown = errors.New("store unavailable")

// memStore backs the collaboration, notification and outbox fakes so that a
// delivery can mark its outbox row the way the real transaction does.
type memStore struct {
	mu            sync.Mutex
	clock         time.Time
	collabs       []models.Collaboration
	outbox        []models.NotificationOutbox
	notifications []models.Notification

	failCollabWrites int // remaining failing CreateWithOutbox calls
	failDeliveries   int // remaining failing CreateFromOutbox calls
	failReads        bool
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2020, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) notificationsFor(recipientID string) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

func (m *memStore) allNotifications() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Notification(nil), m.notifications...)
}

func (m *memStore) allCollabs() []models.Collaboration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Collaboration(nil), m.collabs...)
}

func (m *memStore) undelivered() []models.NotificationOutbox {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.NotificationOutbox
	for _, e := range m.outbox {
		if e.DeliveredAt == nil {
			out = append(out, e)
		}
	}
	return out
}

// collaboration repository

type memCollabRepo struct{ s *memStore }

func (r memCollabRepo) CreateWithOutbox(ctx context.Context, collab *models.Collaboration, entry *models.NotificationOutbox) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCollabWrites > 0 {
		r.s.failCollabWrites--
		return errStoreDown
	}
	if collab.ID == "" {
		collab.ID = uuid.New().String()
	}
	if collab.Status == "" {
		collab.Status = models.StatusPending
	}
	collab.CreatedAt = r.s.tick()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CollaborationID = collab.ID
	entry.CreatedAt = collab.CreatedAt
	r.s.collabs = append(r.s.collabs, *collab)
	r.s.outbox = append(r.s.outbox, *entry)
	return nil
}

func (r memCollabRepo) ListPendingByStartups(ctx context.Context, startupIDs []string) ([]models.Collaboration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failReads {
		return nil, errStoreDown
	}
	wanted := map[string]bool{}
	for _, id := range startupIDs {
		wanted[id] = true
	}
	var out []models.Collaboration
	for _, c := range r.s.collabs {
		if wanted[c.StartupID] && c.Status == models.StatusPending {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// notification repository

type memNotificationRepo struct{ s *memStore }

func (r memNotificationRepo) insert(n *models.Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.s.tick()
	}
	r.s.notifications = append(r.s.notifications, *n)
}

func (r memNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.SourceID != nil {
		for _, existing := range r.s.notifications {
			if existing.SourceID != nil && *existing.SourceID == *n.SourceID {
				return nil
			}
		}
	}
	r.insert(n)
	return nil
}

func (r memNotificationRepo) CreateFromOutbox(ctx context.Context, n *models.Notification, outboxID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failDeliveries > 0 {
		r.s.failDeliveries--
		return errStoreDown
	}
	duplicate := false
	for _, existing := range r.s.notifications {
		if existing.SourceID != nil && n.SourceID != nil && *existing.SourceID == *n.SourceID {
			duplicate = true
			break
		}
	}
	if !duplicate {
		r.insert(n)
	}
	now := r.s.clock
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == outboxID && r.s.outbox[i].DeliveredAt == nil {
			r.s.outbox[i].DeliveredAt = &now
		}
	}
	return nil
}

func (r memNotificationRepo) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failReads {
		return nil, errStoreDown
	}
	var out []models.Notification
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memNotificationRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failReads {
		return 0, errStoreDown
	}
	var count int64
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r memNotificationRepo) FindForRecipient(ctx context.Context, notificationID, recipientID string) (*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == notificationID && n.RecipientID == recipientID {
			found := n
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memNotificationRepo) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		if r.s.notifications[i].ID == notificationID && r.s.notifications[i].RecipientID == recipientID {
			r.s.notifications[i].Read = true
		}
	}
	return nil
}

func (r memNotificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.notifications[:0]
	var deleted int64
	for _, n := range r.s.notifications {
		if n.Read && n.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.s.notifications = kept
	return deleted, nil
}

// outbox repository

type memOutboxRepo struct{ s *memStore }

func (r memOutboxRepo) ListUndelivered(ctx context.Context, createdBefore time.Time, maxAttempts, limit int) ([]models.NotificationOutbox, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failReads {
		return nil, errStoreDown
	}
	var out []models.NotificationOutbox
	for _, e := range r.s.outbox {
		if e.DeliveredAt == nil && e.Attempts < maxAttempts && e.CreatedAt.Before(createdBefore) {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r memOutboxRepo) CountUndelivered(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, e := range r.s.outbox {
		if e.DeliveredAt == nil {
			count++
		}
	}
	return count, nil
}

func (r memOutboxRepo) RecordFailure(ctx context.Context, id string, cause string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].Attempts++
			r.s.outbox[i].LastError = cause
		}
	}
	return nil
}

// directory

type fakeDirectory struct {
	listings map[string]ListingInfo
	users    map[string]UserProfile
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		listings: map[string]ListingInfo{},
		users:    map[string]UserProfile{},
	}
}

func (d *fakeDirectory) Listing(ctx context.Context, id string) (*ListingInfo, error) {
	l, ok := d.listings[id]
	if !ok {
		return nil, apperrors.NotFound("listing not found")
	}
	return &l, nil
}

func (d *fakeDirectory) ListingIDsOwnedBy(ctx context.Context, ownerID string) ([]string, error) {
	var ids []string
	for id, l := range d.listings {
		if l.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (d *fakeDirectory) Listings(ctx context.Context, ids []string) (map[string]ListingInfo, error) {
	out := map[string]ListingInfo{}
	for _, id := range ids {
		if l, ok := d.listings[id]; ok {
			out[id] = l
		}
	}
	return out, nil
}

func (d *fakeDirectory) UserProfiles(ctx context.Context, ids []string) (map[string]UserProfile, error) {
	out := map[string]UserProfile{}
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}
