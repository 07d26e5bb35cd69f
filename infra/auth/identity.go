package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// UserID extracts the user id from a session token. Store tokens are JWTs
// whose subject is the uid; the store verifies the signature, the client
// only needs the identity for tagging its own views. A plain non-JWT token
// is treated as the uid itself, which keeps local development simple.
func UserID(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	if strings.Count(token, ".") != 2 {
		return token, true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, true
	}
	// Firebase ID tokens carry the uid in user_id as well.
	if uid, ok := claims["user_id"].(string); ok && uid != "" {
		return uid, true
	}
	return "", false
}
