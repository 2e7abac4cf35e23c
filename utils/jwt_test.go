package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectToken(t *testing.T) {
	issued := time.Now().Add(-time.Hour).Truncate(time.Second)
	expires := issued.Add(2 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice@example.com",
		"iat": issued.Unix(),
		"exp": expires.Unix(),
	})
	signed, err := token.SignedString([]byte("server-side-key"))
	require.NoError(t, err)

	claims, err := InspectToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.True(t, claims.IssuedAt.Equal(issued))
	assert.True(t, claims.ExpiresAt.Equal(expires))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(expires.Add(time.Second)))
}

func TestInspectToken_Garbage(t *testing.T) {
	_, err := InspectToken("not-a-token")
	assert.Error(t, err)
}
