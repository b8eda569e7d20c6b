package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.NoError(t, CompareHash(hash, "correct-horse-battery"))
	assert.Error(t, CompareHash(hash, "wrong-password"))
	assert.Error(t, CompareHash("not-a-hash", "correct-horse-battery"))
}
