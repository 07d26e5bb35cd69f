package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestFileTokenProvider_AccessToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  session-9f2c \n"), 0o600); err != nil {
		t.Fatalf("write token failed: %v", err)
	}

	got, err := NewFileTokenProvider(path).AccessToken()
	if err != nil {
		t.Fatalf("access token failed: %v", err)
	}
	if got != "session-9f2c" {
		t.Fatalf("unexpected token: %q", got)
	}
}

func TestFileTokenProvider_AccessTokenErrors(t *testing.T) {
	p := NewFileTokenProvider(filepath.Join(t.TempDir(), "missing"))
	if _, err := p.AccessToken(); err == nil {
		t.Fatalf("expected missing-file error")
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte(" \n\t"), 0o600); err != nil {
		t.Fatalf("write empty token failed: %v", err)
	}
	_, err := NewFileTokenProvider(empty).AccessToken()
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty-token error, got: %v", err)
	}
}

// The token file is also the identity source: a signed-token file must yield
// the subject, a plain dev token must yield itself.
func TestFileTokenProvider_ResolvesIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(signedToken(t, jwt.MapClaims{"sub": "u42"})+"\n"), 0o600); err != nil {
		t.Fatalf("write token failed: %v", err)
	}

	token, err := NewFileTokenProvider(path).AccessToken()
	if err != nil {
		t.Fatalf("access token failed: %v", err)
	}
	id, ok := UserID(token)
	if !ok || id != "u42" {
		t.Fatalf("identity from token file: got (%q, %v), want (\"u42\", true)", id, ok)
	}
}
