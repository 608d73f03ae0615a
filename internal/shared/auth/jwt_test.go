package auth

import (
	"testing"
	"time"

	"github.com/neumoapp/platform/internal/shared/config"
	"github.com/neumoapp/platform/internal/shared/types"
)

func testIssuer(secret string, duration time.Duration) *TokenIssuer {
	return NewTokenIssuer(config.AuthConfig{
		JWTSecret:     secret,
		TokenDuration: duration,
	})
}

// TestIssueAndVerify tests the token round trip
func TestIssueAndVerify(t *testing.T) {
	issuer := testIssuer("test-secret", 30*time.Minute)
	patientID := types.NewID()

	token, expiresAt, err := issuer.Issue(patientID, types.DocumentNumber("12345678"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if token == "" {
		t.Fatal("Expected a signed token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("Expected expiry in the future")
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Expected token to verify, got %v", err)
	}
	if claims.PatientID != patientID.String() {
		t.Errorf("Expected patient %s, got %s", patientID, claims.PatientID)
	}
	if claims.DocumentNumber != "12345678" {
		t.Errorf("Expected document number in claims, got %s", claims.DocumentNumber)
	}
}

// TestVerifyWrongSecret tests that tokens signed elsewhere fail
func TestVerifyWrongSecret(t *testing.T) {
	issuer := testIssuer("secret-a", 30*time.Minute)
	other := testIssuer("secret-b", 30*time.Minute)

	token, _, err := issuer.Issue(types.NewID(), types.DocumentNumber("12345678"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("Expected token signed with another secret to fail")
	}
}

// TestVerifyExpired tests that expired tokens fail
func TestVerifyExpired(t *testing.T) {
	issuer := testIssuer("test-secret", -time.Minute)

	token, _, err := issuer.Issue(types.NewID(), types.DocumentNumber("12345678"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Error("Expected expired token to fail verification")
	}
}

// TestVerifyGarbage tests that malformed tokens fail
func TestVerifyGarbage(t *testing.T) {
	issuer := testIssuer("test-secret", 30*time.Minute)

	if _, err := issuer.Verify("not.a.token"); err == nil {
		t.Error("Expected malformed token to fail verification")
	}
}
