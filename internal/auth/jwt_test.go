package auth

import (
	"testing"

	"github.com/reporthub/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	loc := "loc-1"
	user := &model.User{
		ID:         "u-1",
		Username:   "alice",
		Role:       model.RoleAdmin,
		LocationID: &loc,
	}

	token, err := GenerateAccessToken(user, "secret")
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	require.NotNil(t, claims.LocationID)
	assert.Equal(t, "loc-1", *claims.LocationID)

	identity := claims.Identity()
	assert.True(t, identity.IsAdmin())
}

func TestAccessTokenWrongSecret(t *testing.T) {
	user := &model.User{ID: "u-1", Username: "alice", Role: model.RoleUser}

	token, err := GenerateAccessToken(user, "secret")
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword("s3cret", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}
