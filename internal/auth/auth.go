package auth

import (
	"fmt"
	"time"

	"github.com/campusbites/checkout/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

const tokenDuration = 24 * time.Hour

// AuthToken issues and verifies signed auth tokens. The token only supplies
// identity; session mechanics live outside this service.
type AuthToken struct {
	key []byte
}

// NewAuthToken creates new AuthToken instance
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key}
}

type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// CreateToken signs a token carrying the user identity
func (at *AuthToken) CreateToken(userID string) (string, error) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(at.key)
}

// VerifyToken parses and validates a token string and returns its payload
func (at *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	c := claims{}

	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return at.key, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid || c.UserID == "" {
		return nil, models.ErrInvalidToken
	}

	return &models.TokenPayload{UserID: c.UserID}, nil
}
