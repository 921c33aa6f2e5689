package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordFreshSalt(t *testing.T) {
	h1, err := HashPassword("Passw0rd")
	require.NoError(t, err)
	h2, err := HashPassword("Passw0rd")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("Passw0rd")
	require.NoError(t, err)

	require.True(t, CheckPasswordHash("Passw0rd", hash))
	require.False(t, CheckPasswordHash("passw0rd", hash))
	require.False(t, CheckPasswordHash("", hash))
	require.False(t, CheckPasswordHash("Passw0rd", "not-a-bcrypt-digest"))
}
