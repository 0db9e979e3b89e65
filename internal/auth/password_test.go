package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedrive/filedrive/internal/auth"
)

const testBcryptCost = 4

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-password", testBcryptCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, auth.CheckPassword("s3cret-password", hash))
	assert.False(t, auth.CheckPassword("wrong-password", hash))
}

func TestHashPassword_DistinctHashes(t *testing.T) {
	first, err := auth.HashPassword("same-password", testBcryptCost)
	require.NoError(t, err)
	second, err := auth.HashPassword("same-password", testBcryptCost)
	require.NoError(t, err)

	// bcrypt salts every hash.
	assert.NotEqual(t, first, second)
	assert.True(t, auth.CheckPassword("same-password", first))
	assert.True(t, auth.CheckPassword("same-password", second))
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	assert.False(t, auth.CheckPassword("anything", "not-a-bcrypt-hash"))
}
