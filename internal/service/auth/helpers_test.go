package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// hashForTest returns a bcrypt hash of the given password using the minimum
// cost, keeping test runtime low.
func hashForTest(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}
