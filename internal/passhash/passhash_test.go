package passhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("secret")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "secret", digest, "the digest should never equal the plaintext")

	ok, err := Verify("secret", digest)
	require.NoError(t, err)
	assert.True(t, ok, "the original plaintext should verify against its digest")

	ok, err = Verify("wrong", digest)
	require.NoError(t, err)
	assert.False(t, ok, "a different plaintext should not verify")
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("secret")
	require.NoError(t, err)
	second, err := Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two digests of the same plaintext should differ by salt")
}

func TestVerifyMalformedDigest(t *testing.T) {
	ok, err := Verify("secret", "not a bcrypt digest")
	assert.Error(t, err, "a malformed digest should be reported as an error, not a mismatch")
	assert.False(t, ok)
}
