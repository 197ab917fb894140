package auth

import (
	"testing"

	"github.com/google/uuid"
)

func TestJWTFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-12345")

	userID := uuid.New().String()

	token, err := GenerateToken(userID, "Ana", RoleServer)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("Expected userID %s, got %s", userID, claims.UserID)
	}
	if claims.Name != "Ana" || claims.Role != RoleServer {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateTokenRejectsOtherSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "one")
	token, _ := GenerateToken("u1", "Ana", RoleServer)

	t.Setenv("JWT_SECRET", "two")
	if _, err := ValidateToken(token); err == nil {
		t.Fatalf("expected token signed with another secret to fail")
	}
}
