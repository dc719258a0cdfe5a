package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in tokens. Guests own a draft session; staff may attach to
// the live submissions feed.
const (
	RoleGuest = "GUEST"
	RoleStaff = "STAFF"
)

type Claims struct {
	SessionID uuid.UUID `json:"session_id"`
	Role      string    `json:"role"`
	jwt.RegisteredClaims
}

// GenerateSessionToken issues a long-lived guest token. The session ID
// namespaces that visitor's draft; drafts must survive a page reload, so the
// token outlives any single visit.
func GenerateSessionToken(secret string, sessionID uuid.UUID) (string, error) {
	return generate(secret, sessionID, RoleGuest, 14*24*time.Hour)
}

// GenerateStaffToken issues a staff token for the submissions feed.
func GenerateStaffToken(secret string) (string, error) {
	return generate(secret, uuid.New(), RoleStaff, 12*time.Hour)
}

func generate(secret string, sessionID uuid.UUID, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
