package joincode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		code, err := Generate()
		require.NoError(t, err)
		assert.Len(t, code, Length)
		assert.True(t, Valid(code), code)

		_, dup := seen[code]
		assert.False(t, dup, "duplicate code %s", code)
		seen[code] = struct{}{}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ABCD1234EFGH5678", Normalize("  abcd1234efgh5678 "))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("ABCD1234EFGH5678"))
	assert.False(t, Valid("abcd1234efgh5678"))
	assert.False(t, Valid("ABCD1234"))
	assert.False(t, Valid("ABCD-234EFGH5678"))
}
