// Package cryptox holds the credential hashing capability used by the
// session authenticator. Raw secrets only ever pass through this package;
// nothing here logs or stores them.
package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by Compare when the secret does not match the hash.
var ErrMismatch = errors.New("secret does not match hash")

// bcryptMaxLen is the longest input bcrypt accepts.
const bcryptMaxLen = 72

// PasswordHasher hashes secrets and checks submitted secrets against
// stored hashes.
type PasswordHasher interface {
	Hash(secret []byte) (string, error)
	Compare(hash string, secret []byte) error
	// CompareDummy burns the same work as Compare against a throwaway hash.
	// Used when the login key is unknown so both failure paths cost the same.
	CompareDummy(secret []byte)
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost      int
	dummyHash []byte
}

// NewBcryptHasher creates a hasher with the given cost. A cost of 0 selects
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("chatop-dummy-secret"), cost)
	if err != nil {
		return nil, fmt.Errorf("generating dummy hash: %w", err)
	}

	return &BcryptHasher{cost: cost, dummyHash: dummy}, nil
}

func (h *BcryptHasher) Hash(secret []byte) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prepare(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash string, secret []byte) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), prepare(secret))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}

func (h *BcryptHasher) CompareDummy(secret []byte) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, prepare(secret))
}

// prepare folds secrets longer than bcrypt's input limit into a fixed-size
// digest so long passphrases keep all their entropy.
func prepare(secret []byte) []byte {
	if len(secret) <= bcryptMaxLen {
		return secret
	}
	sum := sha256.Sum256(secret)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
