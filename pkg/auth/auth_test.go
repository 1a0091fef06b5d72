package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arthalon/library-catalog/pkg/auth"
)

func TestPasswordHashing(t *testing.T) {
	t.Parallel()
	hash, err := auth.HashPassword("1X<ISRUkw+tuK")
	require.NoError(t, err)
	require.NotEqual(t, "1X<ISRUkw+tuK", hash)

	require.True(t, auth.CheckPassword(hash, "1X<ISRUkw+tuK"))
	require.False(t, auth.CheckPassword(hash, "wrong"))
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	token, err := auth.NewToken("testuser2", "librarian", "testuser2@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "testuser2", claims.Profile.Username)
	require.Equal(t, "librarian", claims.Profile.Role)
	require.Equal(t, "testuser2@example.com", claims.Email)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()
	token, err := auth.NewToken("testuser1", "reader", "", -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken(token)
	require.Error(t, err)
}

func TestAuthContext(t *testing.T) {
	t.Parallel()
	ctx := auth.SetAuthContext(context.Background(), "testuser1", "reader")

	id, ok := auth.FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, auth.Identity{Username: "testuser1", Role: "reader"}, id)

	_, ok = auth.FromContext(context.Background())
	require.False(t, ok)
}
