package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// tokenTTL matches the admin session length used by the dashboard.
const tokenTTL = 7 * 24 * time.Hour

var jwtSecret []byte

// InitJWT stores the signing secret used for all token operations. An empty
// secret is rejected so the server fails closed at startup.
func InitJWT(secret string) error {
	if secret == "" {
		return Config("JWT secret not set")
	}
	jwtSecret = []byte(secret)
	return nil
}

// AdminClaims carries the admin identity inside a bearer token.
type AdminClaims struct {
	AdminID  string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT issues a signed token for an admin user.
func GenerateJWT(adminID uuid.UUID, username, role string) (string, error) {
	if len(jwtSecret) == 0 {
		return "", Config("JWT secret not set")
	}
	now := time.Now()
	claims := AdminClaims{
		AdminID:  adminID.String(),
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateJWT parses and verifies a bearer token, returning its claims.
func ValidateJWT(tokenString string) (*AdminClaims, error) {
	if len(jwtSecret) == 0 {
		return nil, Config("JWT secret not set")
	}
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
