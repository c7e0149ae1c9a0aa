// Package auth issues and verifies the bearer tokens of the gallery backend.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard registered claims plus the owner's user name.
type Claims struct {
	jwt.RegisteredClaims
	UserName string `json:"userName"`
}

func GenerateToken(userName string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserName: userName,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserNameFromToken validates tokenString and returns its owner.
// Every failure matches shared.ErrorInvalidToken; expiry additionally
// matches jwt.ErrTokenExpired.
func GetUserNameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Join(shared.ErrorInvalidToken, err)
	}

	if !token.Valid || claims.UserName == "" {
		return "", shared.ErrorInvalidToken
	}

	return claims.UserName, nil
}
