package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	t.Setenv("OWNER_USERNAME", "admin")
	t.Setenv("OWNER_PASSWORD", "password123")
	t.Setenv("JWT_SECRET", "test-secret")
	return NewAuthService()
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login("admin", "password123")
	require.NoError(t, err)
	assert.Equal(t, "usr_admin", resp.UserID)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateOwnerToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "usr_admin", claims.UserID)
}

func TestLoginIsDeterministic(t *testing.T) {
	svc := newTestAuthService(t)

	first, err := svc.Login("admin", "password123")
	require.NoError(t, err)
	second, err := svc.Login("admin", "password123")
	require.NoError(t, err)

	// Same account, same history: the user ID must not change per login.
	assert.Equal(t, first.UserID, second.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateOwnerTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.ValidateOwnerToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestShareTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(t)

	token, err := svc.GenerateShareToken("usr_admin")
	require.NoError(t, err)

	claims, err := svc.ValidateShareToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_admin", claims.UserID)
	assert.True(t, claims.ReadOnly)
}

func TestShareAndOwnerTokensAreNotInterchangeable(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login("admin", "password123")
	require.NoError(t, err)

	// An owner token carries no read-only claim.
	_, err = svc.ValidateShareToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// And a share token must never pass for an owner one, or a viewer
	// could mutate check-ins.
	share, err := svc.GenerateShareToken("usr_admin")
	require.NoError(t, err)
	_, err = svc.ValidateOwnerToken(share)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
