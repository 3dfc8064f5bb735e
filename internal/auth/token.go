// Package auth signs and verifies the persisted session token.
//
// The token only proves that the session record was written by this
// installation (the key never leaves the local database); it is not a remote
// authentication mechanism.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/aura/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "aura"

// Claims carries the account id next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"aid"`
}

// GenerateToken signs an HS256 token for accountID valid for ttl.
func GenerateToken(accountID string, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: accountID,
	})

	return token.SignedString(secretKey)
}

// AccountIDFromToken verifies tokenString and returns its account id.
// Expired tokens give common.ErrTokenExpired, anything else wrong gives
// common.ErrInvalidToken.
func AccountIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.AccountID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.AccountID, nil
}
