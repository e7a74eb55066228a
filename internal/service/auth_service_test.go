package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	return NewAuthService("test-secret", map[string]string{"alice": hash})
}

func TestLoginIssuesOwnerToken(t *testing.T) {
	auth := newTestAuth(t)

	resp, err := auth.Login("alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, OwnerID("alice"), resp.OwnerID)

	claims, err := auth.ValidateOwnerToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.OwnerID, claims.OwnerID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newTestAuth(t)

	_, err := auth.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login("bob", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestOwnerIDIsStable(t *testing.T) {
	assert.Equal(t, OwnerID("alice"), OwnerID("alice"))
	assert.NotEqual(t, OwnerID("alice"), OwnerID("bob"))
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	auth := newTestAuth(t)

	respondent, err := auth.GenerateRespondentToken("form-1", "sess-1")
	require.NoError(t, err)
	_, err = auth.ValidateOwnerToken(respondent)
	assert.ErrorIs(t, err, ErrInvalidToken)

	login, err := auth.Login("alice", "hunter2")
	require.NoError(t, err)
	_, err = auth.ValidateRespondentToken(login.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService("other-secret", nil)
	_, err = other.ValidateRespondentToken(respondent)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
