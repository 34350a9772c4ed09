package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hashed)
	require.True(t, CheckPassword(hashed, "hunter22"))
}

func TestCheckPasswordMismatch(t *testing.T) {
	hashed, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.False(t, CheckPassword(hashed, "hunter23"))
	require.False(t, CheckPassword("not-a-hash", "hunter22"))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("hunter22")
	require.NoError(t, err)
	second, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
