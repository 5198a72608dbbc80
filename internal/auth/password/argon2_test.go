package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fast = Params{Time: 1, Memory: 1024, Threads: 1, SaltLen: 16, KeyLen: 32}

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(fast)

	encoded, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := h.Verify(encoded, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(encoded, "wrong horse")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_SaltsDiffer(t *testing.T) {
	h := NewHasher(fast)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_UsesStoredParams(t *testing.T) {
	encoded, err := NewHasher(fast).Hash("pw-12345")
	require.NoError(t, err)

	ok, err := NewHasher(DefaultParams).Verify(encoded, "pw-12345")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_Malformed(t *testing.T) {
	h := NewHasher(fast)
	for _, bad := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$garbage$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
	} {
		_, err := h.Verify(bad, "x")
		assert.ErrorIs(t, err, ErrMalformedHash, bad)
	}
}
