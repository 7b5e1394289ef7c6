package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("boba-secret")
	require.NoError(t, err)
	assert.NotEqual(t, "boba-secret", hash)

	assert.True(t, CheckPasswordHash("boba-secret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("boba-secret", "not-a-hash"))
}
