package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/neumoapp/platform/internal/shared/config"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/types"
)

// Claims carries the authenticated patient identity inside the token.
type Claims struct {
	PatientID      string `json:"patient_id"`
	DocumentNumber string `json:"document_number"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
}

func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(cfg.JWTSecret),
		duration: cfg.TokenDuration,
	}
}

// Issue creates a signed token for the given patient.
func (t *TokenIssuer) Issue(patientID types.ID, document types.DocumentNumber) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.duration)
	claims := Claims{
		PatientID:      patientID.String(),
		DocumentNumber: document.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   patientID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, errors.Internal(err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token, returning its claims.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Unauthorized("invalid or expired token")
	}
	if !token.Valid {
		return nil, errors.Unauthorized("invalid token")
	}
	return claims, nil
}
