package auth

import "testing"

func TestSessionTokenRoundTrip(t *testing.T) {
	Configure([]byte("test-secret"))
	defer Configure(nil)

	token, err := GenerateSessionToken("session-123")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.SessionID != "session-123" {
		t.Errorf("Expected session ID session-123, got %s", claims.SessionID)
	}
	if claims.Role != "caller" {
		t.Errorf("Expected role 'caller', got '%s'", claims.Role)
	}
	if claims.ExpiresAt == nil {
		t.Error("Token should carry an expiry")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	Configure([]byte("secret-a"))
	token, err := GenerateSessionToken("session-123")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	Configure([]byte("secret-b"))
	defer Configure(nil)

	if _, err := ValidateToken(token); err == nil {
		t.Error("Token signed with a different secret should be rejected")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	Configure([]byte("test-secret"))
	defer Configure(nil)

	if _, err := ValidateToken("not-a-jwt"); err == nil {
		t.Error("Garbage token should be rejected")
	}
}

func TestEnabled(t *testing.T) {
	Configure(nil)
	if Enabled() {
		t.Error("Auth should be disabled without a secret")
	}
	Configure([]byte("x"))
	defer Configure(nil)
	if !Enabled() {
		t.Error("Auth should be enabled with a secret")
	}
}
