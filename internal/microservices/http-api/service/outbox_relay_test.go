package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRelay_RecordsFailuresAndGivesUpAfterMaxAttempts(t *testing.T) {
	f := newFixture(t)
	f.store.failDeliveries = 100

	_, err := f.collabs.Create(context.Background(), bob, CreateCollaborationInput{
		ListingID: acmeID,
		Kind:      "collaborate",
		Message:   "hi",
	})
	require.Error(t, err)

	for i := 0; i < 3; i++ {
		delivered, err := f.relay.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, delivered)
	}

	pending := f.store.undelivered()
	require.Len(t, pending, 1)
	assert.Equal(t, 3, pending[0].Attempts)
	assert.Contains(t, pending[0].LastError, "store unavailable")

	// attempts exhausted: the entry is no longer picked up
	f.store.failDeliveries = 0
	delivered, err := f.relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, delivered)
	assert.Empty(t, f.store.allNotifications())
}

func TestRelay_DeliversBatchConcurrently(t *testing.T) {
	f := newFixture(t)
	f.store.failDeliveries = 5

	for i := 0; i < 5; i++ {
		_, err := f.collabs.Create(context.Background(), bob, CreateCollaborationInput{
			ListingID: acmeID,
			Kind:      "collaborate",
			Message:   "hi",
		})
		require.Error(t, err)
	}
	require.Len(t, f.store.undelivered(), 5)

	delivered, err := f.relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, delivered)
	assert.Len(t, f.store.notificationsFor(founderID), 5)
	assert.Empty(t, f.store.undelivered())
}

func TestRelay_PrunesReadNotificationsWhenRetentionIsSet(t *testing.T) {
	f := newFixture(t)
	seedNotification(t, f, founderID, true)
	seedNotification(t, f, founderID, false)

	relay := NewOutboxRelay(memOutboxRepo{f.store}, f.notifications, RelayConfig{
		Interval:  time.Second,
		Retention: time.Hour,
	}, zaptest.NewLogger(t))

	_, err := relay.RunOnce(context.Background())
	require.NoError(t, err)

	remaining := f.store.notificationsFor(founderID)
	require.Len(t, remaining, 1)
	assert.False(t, remaining[0].Read)
}

func TestRelay_ListFailure(t *testing.T) {
	f := newFixture(t)
	f.store.failReads = true

	_, err := f.relay.RunOnce(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	relay := NewOutboxRelay(memOutboxRepo{f.store}, f.notifications, RelayConfig{Interval: 10 * time.Millisecond}, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}
