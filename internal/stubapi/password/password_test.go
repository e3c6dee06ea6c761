package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	encoded, err := Hash("hunter22")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	assert.True(t, Verify("hunter22", encoded))
	assert.False(t, Verify("hunter23", encoded))
}

func TestHashWith_EncodesCostSettings(t *testing.T) {
	p := Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8}
	encoded, err := HashWith(p, "hunter22")
	require.NoError(t, err)
	assert.Contains(t, encoded, "m=8192,t=1,p=1")

	// Verify recomputes with the costs from the string, not the defaults.
	assert.True(t, Verify("hunter22", encoded))
}

func TestVerify_RejectsMalformedEncodings(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=nope,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!$aGFzaA",
	} {
		assert.False(t, Verify("hunter22", encoded), "encoded=%q", encoded)
	}
}
