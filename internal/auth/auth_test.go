package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), time.Hour)
	token, expires, err := m.Issue("user-1", "ana@example.com", "admin")
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	s, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, "ana@example.com", s.Email)
	assert.True(t, s.IsAdmin())
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := NewTokenManager([]byte("secret-a"), time.Hour)
	token, _, err := m.Issue("user-1", "x@example.com", "employee")
	require.NoError(t, err)

	other := NewTokenManager([]byte("secret-b"), time.Hour)
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewTokenManager([]byte("secret"), -time.Minute)
	token, _, err := m.Issue("user-1", "x@example.com", "employee")
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))
}

func TestSessionContext(t *testing.T) {
	ctx := WithSession(context.Background(), Session{UserID: "u1", Role: "employee"})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", s.UserID)
	assert.False(t, s.IsAdmin())

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
