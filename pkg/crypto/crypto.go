package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// JoinKeyAlphabet leaves out 0/O and 1/I/L so keys survive being read aloud.
const JoinKeyAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const JoinKeyLength = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// RandomString draws n characters uniformly from alphabet using crypto/rand.
func RandomString(n int, alphabet string) (string, error) {
	if n <= 0 || alphabet == "" {
		return "", errors.New("crypto: invalid random string parameters")
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

// NewJoinKey returns a fresh project join key.
func NewJoinKey() (string, error) {
	return RandomString(JoinKeyLength, JoinKeyAlphabet)
}

// HashPassword hashes a plain password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
