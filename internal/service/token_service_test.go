package service

import (
	"errors"
	"testing"
	"time"

	"accidata/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	session := domain.Session{ID: "s1"}

	token, err := svc.GenerateAccessToken(session)
	if err != nil {
		t.Fatalf("expected token, got %v", err)
	}

	claims, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims.SessionID != "s1" {
		t.Fatalf("expected session id in claims, got %q", claims.SessionID)
	}
	if claims.TokenType != "access" {
		t.Fatalf("expected access token type, got %q", claims.TokenType)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.GenerateAccessToken(domain.Session{ID: "s1"})
	if err != nil {
		t.Fatalf("expected token, got %v", err)
	}
	if _, err := verifier.ParseAccessToken(token); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid, got %v", err)
	}
}

func TestTokenExpiredRejected(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	svc.accessTTL = -time.Minute

	token, err := svc.GenerateAccessToken(domain.Session{ID: "s1"})
	if err != nil {
		t.Fatalf("expected token, got %v", err)
	}
	if _, err := svc.ParseAccessToken(token); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("expected ErrJWTExpired, got %v", err)
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	for _, raw := range []string{"", "   ", "not.a.jwt"} {
		if _, err := svc.ParseAccessToken(raw); !errors.Is(err, ErrJWTInvalid) {
			t.Fatalf("expected ErrJWTInvalid for %q, got %v", raw, err)
		}
	}
}

func TestTokenEmptySecretRefusesToSign(t *testing.T) {
	svc := NewTokenService("", time.Hour)
	if _, err := svc.GenerateAccessToken(domain.Session{ID: "s1"}); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid without secret, got %v", err)
	}
}
