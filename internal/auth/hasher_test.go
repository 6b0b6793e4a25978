package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	for _, pw := range []string{"pw1", "correct horse battery staple", "ünïcødé", " "} {
		digest, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, digest)
		assert.True(t, h.Verify(pw, digest), "password %q should verify", pw)
	}
}

func TestHasher_WrongPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("pw1")
	require.NoError(t, err)
	assert.False(t, h.Verify("pw2", digest))
	assert.False(t, h.Verify("", digest))
}

func TestHasher_FreshSaltPerCall(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHasher_MalformedDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	assert.NotPanics(t, func() {
		assert.False(t, h.Verify("pw", ""))
		assert.False(t, h.Verify("pw", "not-a-bcrypt-hash"))
		assert.False(t, h.Verify("pw", "$2a$10$short"))
	})
}

func TestHasher_PasswordTooLong(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", 73))
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewHasher_CostOutOfRange(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewHasher(12).cost)
}
