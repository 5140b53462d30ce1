package token_test

import (
	"testing"
	"time"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/auth/token"
	"github.com/equipsight/equipsight/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *model.User {
	return &model.User{
		ID:    core.MustNewID(),
		Email: "ada@example.com",
	}
}

func TestNewManager(t *testing.T) {
	t.Run("Should reject an empty secret", func(t *testing.T) {
		_, err := token.NewManager(nil, time.Hour, time.Hour)
		assert.Error(t, err)
	})
	t.Run("Should reject non-positive TTLs", func(t *testing.T) {
		_, err := token.NewManager([]byte("secret"), 0, time.Hour)
		assert.Error(t, err)
	})
}

func TestManager_IssuePair(t *testing.T) {
	mgr, err := token.NewManager([]byte("secret"), time.Hour, 24*time.Hour)
	require.NoError(t, err)
	user := testUser()

	t.Run("Should issue a verifiable access token", func(t *testing.T) {
		pair, err := mgr.IssuePair(user)
		require.NoError(t, err)
		claims, err := mgr.VerifyAccess(pair.Access)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Email, claims.Email)
	})
	t.Run("Should issue a verifiable refresh token", func(t *testing.T) {
		pair, err := mgr.IssuePair(user)
		require.NoError(t, err)
		claims, err := mgr.VerifyRefresh(pair.Refresh)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})
	t.Run("Should reject a refresh token presented as access", func(t *testing.T) {
		pair, err := mgr.IssuePair(user)
		require.NoError(t, err)
		_, err = mgr.VerifyAccess(pair.Refresh)
		assert.ErrorIs(t, err, token.ErrWrongTokenType)
	})
}

func TestManager_VerifyAccess(t *testing.T) {
	mgr, err := token.NewManager([]byte("secret"), time.Hour, 24*time.Hour)
	require.NoError(t, err)

	t.Run("Should reject garbage tokens", func(t *testing.T) {
		_, err := mgr.VerifyAccess("not-a-jwt")
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})
	t.Run("Should reject tokens signed with another secret", func(t *testing.T) {
		other, err := token.NewManager([]byte("other"), time.Hour, 24*time.Hour)
		require.NoError(t, err)
		pair, err := other.IssuePair(testUser())
		require.NoError(t, err)
		_, err = mgr.VerifyAccess(pair.Access)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})
	t.Run("Should reject expired tokens", func(t *testing.T) {
		short, err := token.NewManager([]byte("secret"), time.Millisecond, time.Millisecond)
		require.NoError(t, err)
		pair, err := short.IssuePair(testUser())
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		_, err = short.VerifyAccess(pair.Access)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})
}
