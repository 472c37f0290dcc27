package utils_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kiyohan/StarHack/middleware"
	"github.com/kiyohan/StarHack/models"
	"github.com/kiyohan/StarHack/utils"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)
	require.True(t, utils.CheckPasswordHash("s3cret-pass", hash))
	require.False(t, utils.CheckPasswordHash("wrong", hash))
}

// Tokens issued by GenerateToken must parse back into the claims type the
// auth middleware uses, role included, or the admin route gate breaks.
func TestGenerateTokenParsesIntoAuthClaims(t *testing.T) {
	tokenStr, err := utils.GenerateToken(42, "dana", models.RoleAdmin)
	require.NoError(t, err)

	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return utils.JWTKey(), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "dana", claims.Username)
	require.Equal(t, models.RoleAdmin, claims.Role)
}
