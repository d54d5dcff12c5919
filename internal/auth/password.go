package auth

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a salted bcrypt hash of the plaintext password.
// bcrypt embeds a fresh random salt per call, so two identical passwords
// never produce identical hashes.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash. A malformed
// hash is a mismatch, not an error.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

const (
	upperCase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerCase = "abcdefghijklmnopqrstuvwxyz"
	digits    = "0123456789"
	symbols   = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

var passwordClasses = []string{upperCase, lowerCase, digits, symbols}

// GeneratePassword returns a random password of the given length, each
// character drawn from a randomly chosen class. Used to prefill the password
// field on the registration form as a suggestion.
func GeneratePassword(length int) string {
	out := make([]byte, length)
	for i := range out {
		class := passwordClasses[randIndex(len(passwordClasses))]
		out[i] = class[randIndex(len(class))]
	}
	return string(out)
}

func randIndex(n int) int {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails if the platform's entropy source is broken.
		return 0
	}
	return int(idx.Int64())
}
