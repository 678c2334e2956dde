package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "realestate/internal/errors"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, password := range []string{"admin123", "p@ss w0rd", "ünïcödé-secret", "x"} {
		digest, err := h.Hash(password)
		require.NoError(t, err)
		assert.NotEqual(t, password, digest)
		assert.True(t, h.Verify(password, digest))
		assert.False(t, h.Verify(password+"!", digest))
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("admin123", ""))
	assert.False(t, h.Verify("admin123", "not-a-hash"))
	assert.False(t, h.Verify("admin123", "$2a$10$short"))
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(1).cost)
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).cost)
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", 72))
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, apperrors.ErrPasswordTooLong)

	// 40 runes, 80 bytes.
	_, err = h.Hash(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, apperrors.ErrPasswordTooLong)
}
