package authentication

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestStoreAndGetTokens(t *testing.T) {
	keyring.MockInit()

	creds := &StoredCredentials{
		AccessToken: "token-abc",
		UserID:      "7d3c1d6e-3f7a-4d2b-9a43-2b8f7f0f6a11",
		Username:    "ann",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}
	require.NoError(t, StoreTokens(creds))

	got, err := GetTokens()
	require.NoError(t, err)
	assert.Equal(t, creds, got)

	require.NoError(t, DeleteTokens())
	_, err = GetTokens()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestGetTokens_Expired(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, StoreTokens(&StoredCredentials{
		AccessToken: "old",
		ExpiresAt:   time.Now().Add(-time.Minute).Unix(),
	}))

	_, err := GetTokens()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestDeleteTokens_NothingStored(t *testing.T) {
	keyring.MockInit()
	assert.NoError(t, DeleteTokens())
}
