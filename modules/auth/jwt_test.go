package auth

import (
	"errors"
	"testing"
	"time"
)

func testJWTManager(duration time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		SecretKey:     "test-secret-key",
		TokenDuration: duration,
		Issuer:        "todo-backend-test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	m := testJWTManager(time.Hour)

	token, err := m.Generate("user-123", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token")
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("Expected user ID user-123, got %s", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Expected email preserved, got %s", claims.Email)
	}
	if claims.Username != "alice" {
		t.Errorf("Expected username preserved, got %s", claims.Username)
	}
	if claims.Issuer != "todo-backend-test" {
		t.Errorf("Expected issuer preserved, got %s", claims.Issuer)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	m := testJWTManager(-time.Minute)

	token, err := m.Generate("user-123", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := m.Validate(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateTamperedToken(t *testing.T) {
	m := testJWTManager(time.Hour)

	token, err := m.Generate("user-123", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := m.Validate(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}

	other := NewJWTManager(JWTConfig{
		SecretKey:     "different-secret",
		TokenDuration: time.Hour,
		Issuer:        "todo-backend-test",
	})
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
	}

	if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestTokenDuration(t *testing.T) {
	m := testJWTManager(24 * time.Hour)
	if got := m.TokenDuration(); got != 86400 {
		t.Errorf("Expected 86400 seconds, got %d", got)
	}
}
