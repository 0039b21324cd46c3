package jwtutil

import (
	"testing"

	"marketing-api/pkg/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	token, err := GenerateToken("user-1", "demo@example.com", "tenant-1", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}
	if claims.TenantID != "tenant-1" {
		t.Errorf("tenant_id = %q, want tenant-1", claims.TenantID)
	}
	if claims.Role != "admin" {
		t.Errorf("role = %q, want admin", claims.Role)
	}
	if claims.Email != "demo@example.com" {
		t.Errorf("email = %q, want demo@example.com", claims.Email)
	}
}

func TestValidateTokenWrongKey(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "first-key", ExpirationHours: 1})
	token, err := GenerateToken("user-1", "", "tenant-1", "viewer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	Initialize(&config.JWTConfig{SigningKey: "second-key", ExpirationHours: 1})
	if _, err := ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail for token signed with a different key")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected validation to fail for a malformed token")
	}
}
