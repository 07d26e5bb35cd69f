package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}

func TestUserID_FromJWTSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "u42"})
	id, ok := UserID(token)
	if !ok || id != "u42" {
		t.Fatalf("got (%q, %v)", id, ok)
	}
}

func TestUserID_FirebaseUserIDClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"user_id": "u7"})
	id, ok := UserID(token)
	if !ok || id != "u7" {
		t.Fatalf("got (%q, %v)", id, ok)
	}
}

func TestUserID_PlainTokenIsTheID(t *testing.T) {
	id, ok := UserID("  local-dev-user \n")
	if !ok || id != "local-dev-user" {
		t.Fatalf("got (%q, %v)", id, ok)
	}
}

func TestUserID_Rejects(t *testing.T) {
	if _, ok := UserID(""); ok {
		t.Fatal("empty token must not yield an identity")
	}
	if _, ok := UserID("not.a.jwt"); ok {
		t.Fatal("malformed JWT must not yield an identity")
	}
	if _, ok := UserID(signedToken(t, jwt.MapClaims{"aud": "app"})); ok {
		t.Fatal("JWT without a subject must not yield an identity")
	}
}
