package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spilno/spilno-backend/internal/config"
	"github.com/spilno/spilno-backend/internal/users"
)

// Two token kinds exist: a short-lived custom token minted server-side for a
// uid, and the session token a client receives after exchanging it. The
// purpose claim keeps them apart so a custom token can never pass as a session.

// GenerateCustomToken creates the signed short-lived token handed to the
// exchange endpoint.
func GenerateCustomToken(cfg *config.Config, uid string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"uid":     uid,
		"purpose": "custom",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.Identity.TokenSecret))
}

// GenerateSessionToken creates a signed session token for the user
func GenerateSessionToken(cfg *config.Config, u *users.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"uid":   u.UID,
		"sub":   u.UID,
		"email": u.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.Identity.TokenSecret))
}

// VerifyCustomToken checks signature and purpose and returns the uid.
func VerifyCustomToken(cfg *config.Config, raw string) (string, error) {
	claims, err := parse(cfg.Identity.TokenSecret, raw)
	if err != nil {
		return "", err
	}
	if purpose, _ := claims["purpose"].(string); purpose != "custom" {
		return "", fmt.Errorf("not a custom token")
	}
	uid, _ := claims["uid"].(string)
	if uid == "" {
		return "", fmt.Errorf("uid claim missing")
	}
	return uid, nil
}

func parse(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
