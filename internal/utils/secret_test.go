package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefreshSecret(t *testing.T) {
	a, err := NewRefreshSecret()
	require.NoError(t, err)
	b, err := NewRefreshSecret()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, RefreshSecretBytes)
}

func TestDigestSecret(t *testing.T) {
	d1 := DigestSecret("secret")
	assert.Len(t, d1, DigestLength)
	assert.Equal(t, d1, DigestSecret("secret"))
	assert.NotEqual(t, d1, DigestSecret("secret2"))
	assert.Len(t, DigestSecret(""), DigestLength)
}

func TestEqualDigests(t *testing.T) {
	d := DigestSecret("secret")
	assert.True(t, EqualDigests(d, DigestSecret("secret")))
	assert.False(t, EqualDigests(d, DigestSecret("other")))
	assert.False(t, EqualDigests(d, d[:DigestLength-1]))
	assert.False(t, EqualDigests("", ""))
	assert.False(t, EqualDigests("abc", "abc"))
}
