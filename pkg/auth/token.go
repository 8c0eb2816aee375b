package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mesalivre/pos-backend/pkg/config"
)

// Claims are the access-token claims carried by an authenticated waiter
// terminal session.
type Claims struct {
	WaiterID     uuid.UUID `json:"waiter_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	SessionID    string    `json:"session_id"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a token binding the waiter to a terminal session.
func IssueAccessToken(cfg config.JWTConfig, waiterID, restaurantID uuid.UUID, sessionID string) (string, error) {
	now := time.Now()
	claims := Claims{
		WaiterID:     waiterID,
		RestaurantID: restaurantID,
		SessionID:    sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   waiterID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiration())),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates the signature and expiry and returns the claims.
func ParseAccessToken(cfg config.JWTConfig, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
