// Package security provides the password key-derivation adapter.
package security

import (
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 10000
	DefaultKeyLen     = 64
	DefaultSaltLen    = 32
)

var ErrEmptySalt = errors.New("salt cannot be empty")

// PBKDF2Hasher derives password hashes with PBKDF2-HMAC-SHA512.
type PBKDF2Hasher struct {
	iterations int
	keyLen     int
	saltLen    int
}

// NewPBKDF2Hasher returns a hasher with the default parameters.
func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{
		iterations: DefaultIterations,
		keyLen:     DefaultKeyLen,
		saltLen:    DefaultSaltLen,
	}
}

// NewSalt returns saltLen bytes from crypto/rand.
func (h *PBKDF2Hasher) NewSalt() ([]byte, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

func (h *PBKDF2Hasher) Hash(password string, salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}
	return pbkdf2.Key([]byte(password), salt, h.iterations, h.keyLen, sha512.New), nil
}
