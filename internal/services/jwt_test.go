package services_test

import (
	"testing"

	"casino-miniapp-gateway/internal/config"
	"casino-miniapp-gateway/internal/services"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := services.NewJWTService(&config.Config{JWTSecret: "test-secret"})

	token, err := svc.GenerateToken("12345", "sess_abc")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.TelegramID != "12345" {
		t.Errorf("Expected telegram id 12345, got %q", claims.TelegramID)
	}
	if claims.SessionID != "sess_abc" {
		t.Errorf("Expected session sess_abc, got %q", claims.SessionID)
	}
}

func TestJWTRejectsForeignSecret(t *testing.T) {
	issuer := services.NewJWTService(&config.Config{JWTSecret: "one-secret"})
	verifier := services.NewJWTService(&config.Config{JWTSecret: "other-secret"})

	token, err := issuer.GenerateToken("12345", "sess_abc")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("Token signed with another secret should be rejected")
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	svc := services.NewJWTService(&config.Config{JWTSecret: "test-secret"})

	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("Malformed tokens should be rejected")
	}
}
