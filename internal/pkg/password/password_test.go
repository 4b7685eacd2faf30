package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, Verify("correct horse battery staple", hash))
	assert.False(t, Verify("wrong password", hash))
}

func TestHashToken(t *testing.T) {
	a := HashToken("some-refresh-token")
	b := HashToken("some-refresh-token")
	c := HashToken("another-token")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // hex-encoded SHA256
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword(""))
	assert.False(t, ValidatePassword("short"))
	assert.True(t, ValidatePassword("12345678"))
}
