package auth_test

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketbay/shop-backend/internal/auth"
)

func TestTokenManager_IssueVerify(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	userID := uuid.Must(uuid.NewV4())

	token, err := tm.Issue(userID, "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, "customer", identity.Role)
	assert.False(t, identity.IsAdmin())
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", time.Hour)
	verifier := auth.NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(uuid.Must(uuid.NewV4()), "customer")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Issue(uuid.Must(uuid.NewV4()), "customer")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	_, err := tm.Verify("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestIdentity_IsAdmin(t *testing.T) {
	assert.True(t, auth.Identity{Role: "admin"}.IsAdmin())
	assert.False(t, auth.Identity{Role: "customer"}.IsAdmin())
	assert.False(t, auth.Identity{Role: "Admin"}.IsAdmin())
	assert.False(t, auth.Identity{}.IsAdmin())
}
