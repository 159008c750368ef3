package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	user := &domain.User{
		ID:       42,
		Username: "alice",
		Role:     domain.RoleAdmin,
		AuthType: domain.AuthTypeLdap,
	}

	token, err := tm.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, domain.AuthTypeLdap, claims.AuthType)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenManager_UsesConfiguredTTL(t *testing.T) {
	ttl := 2 * time.Hour
	tm := NewTokenManager("test-secret", ttl)

	start := time.Now()

	token, err := tm.GenerateToken(&domain.User{ID: 1, Username: "u", Role: domain.RoleViewer, AuthType: domain.AuthTypeLocal})
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)

	expectedExpiry := start.Add(ttl)
	assert.WithinDuration(t, expectedExpiry, claims.ExpiresAt.Time, 2*time.Second)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, err := tm.GenerateToken(&domain.User{ID: 1, Username: "u", Role: domain.RoleViewer, AuthType: domain.AuthTypeLocal})
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
