package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the account does not exist so that a
// miss takes as long as a wrong password.
var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

// HashPassword creates a bcrypt hash from the given plaintext password.
func HashPassword(password string) (string, error) {
	// default cost is 10; raise it if login latency allows
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyPassword checks if the provided plaintext password matches the stored bcrypt hash.
func VerifyPassword(hashedPassword, providedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword))
}

// BurnCompare runs a comparison that always fails, for unknown accounts.
func BurnCompare(providedPassword string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unused-account-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(providedPassword))
}
