package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_ProducesVerifiableDigest(t *testing.T) {
	digest, err := HashPassword("longenough")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Errorf("expected bcrypt digest, got %q", digest)
	}
	if err := ComparePassword(digest, "longenough"); err != nil {
		t.Errorf("expected password to verify against its own digest: %v", err)
	}
}

func TestHashPassword_EmptyPasswordRejected(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestHashPassword_SaltedDigestsDiffer(t *testing.T) {
	a, err := HashPassword("longenough")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	b, err := HashPassword("longenough")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if a == b {
		t.Error("expected two hashes of the same password to differ (random salt)")
	}
}

func TestComparePassword_WrongPasswordFails(t *testing.T) {
	digest, err := HashPassword("correct-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if err := ComparePassword(digest, "other-password"); err == nil {
		t.Error("expected mismatch for wrong password")
	}
}

func TestComparePassword_MalformedDigestFailsWithoutPanic(t *testing.T) {
	if err := ComparePassword("not-a-bcrypt-digest", "whatever"); err == nil {
		t.Error("expected error for malformed digest")
	}
}
