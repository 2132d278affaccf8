package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	now := time.Now()
	for _, p := range []Principal{
		{Kind: KindAdmin, ID: 1},
		{Kind: KindStudent, ID: 5},
	} {
		tokenStr, err := SignPrincipal(p, testSecret, now)
		require.NoError(t, err)

		got, err := ParseToken(tokenStr, testSecret)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tokenStr, err := SignPrincipal(Principal{Kind: KindAdmin, ID: 1}, testSecret, time.Now())
	require.NoError(t, err)

	_, err = ParseToken(tokenStr, []byte("other-secret"))
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	issued := time.Now().Add(-2 * sessionTTL)
	tokenStr, err := SignPrincipal(Principal{Kind: KindStudent, ID: 5}, testSecret, issued)
	require.NoError(t, err)

	_, err = ParseToken(tokenStr, testSecret)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token", testSecret)
	assert.Error(t, err)
}
