package auth

import (
	"errors"
	"testing"

	"github.com/parceldrop/parceldrop-backend/internal/models"
)

func TestJWTVerifier_RoundTrip(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")

	user := &models.User{Email: "sender@example.com", Role: models.RoleUser}
	token, err := verifier.Issue(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	identity, err := verifier.Verify("Bearer " + token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Email != "sender@example.com" {
		t.Errorf("expected email sender@example.com, got %q", identity.Email)
	}
	if identity.Role != models.RoleUser {
		t.Errorf("expected role user, got %q", identity.Role)
	}
}

func TestJWTVerifier_MissingHeader(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")

	if _, err := verifier.Verify(""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJWTVerifier_MalformedHeader(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")

	for _, header := range []string{
		"Basic dXNlcjpwYXNz",
		"Bearer",
		"Bearer ",
		"token-without-scheme",
	} {
		if _, err := verifier.Verify(header); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("header %q: expected ErrUnauthorized, got %v", header, err)
		}
	}
}

func TestJWTVerifier_WrongSecret(t *testing.T) {
	issuer := NewJWTVerifier("secret-a")
	verifier := NewJWTVerifier("secret-b")

	token, err := issuer.Issue(&models.User{Email: "sender@example.com", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := verifier.Verify("Bearer " + token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJWTVerifier_GarbageToken(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")

	if _, err := verifier.Verify("Bearer not.a.token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
