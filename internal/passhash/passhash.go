// Package passhash wraps bcrypt hashing and verification of user
// passwords. Digests embed their own salt and work factor, so a
// stored digest stays verifiable if the cost constant changes.
package passhash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor applied to new digests.
const Cost = 10

// Hash produces a salted bcrypt digest of the plaintext.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// Verify reports whether the plaintext matches the digest.
// A mismatch is not an error; a malformed digest is.
func Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}
