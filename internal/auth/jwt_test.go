package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	claims := Claims{
		Subject:   "op-1",
		Username:  "teller-1",
		Role:      "teller",
		Version:   3,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	token, err := Sign(claims, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := Verify(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != claims {
		t.Fatalf("claims mismatch: %+v != %+v", got, claims)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Sign(Claims{Subject: "op-1", ExpiresAt: time.Now().Add(time.Hour).Unix()}, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := Verify(tampered, secret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	if _, err := Verify(token, []byte("other-secret")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Sign(Claims{Subject: "op-1", ExpiresAt: time.Now().Add(-time.Minute).Unix()}, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Verify(token, secret); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
