package auth

import (
	"time"

	"clinic-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	StaffID  uint   `json:"staff_id"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, account *models.User) (string, error) {
	claims := &JWTCustomClaims{
		UserID:   account.ID,
		Username: account.Username,
		Role:     account.Role.Name,
		StaffID:  account.StaffID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
