package auth

import (
	"testing"

	"clinic-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	account := &models.User{
		ID:       7,
		Username: "alee",
		Role:     models.Role{Name: "Nurse"},
		StaffID:  3,
	}

	tokenStr, err := GenerateToken(secret, account)
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(*JWTCustomClaims)
	require.True(t, ok)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alee", claims.Username)
	assert.Equal(t, "Nurse", claims.Role)
	assert.Equal(t, uint(3), claims.StaffID)
}

func TestGenerateTokenRejectsWrongSecret(t *testing.T) {
	account := &models.User{ID: 1, Username: "alee", Role: models.Role{Name: "Nurse"}}

	tokenStr, err := GenerateToken("0123456789abcdef0123456789abcdef", account)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("another-secret-another-secret-xx"), nil
	})
	assert.Error(t, err)
}
