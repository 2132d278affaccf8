package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectRoundTrip(t *testing.T) {
	for _, p := range []Principal{
		{Kind: KindAdmin, ID: 1},
		{Kind: KindStudent, ID: 42},
	} {
		got, err := ParseSubject(p.Subject())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestParseSubjectFailsClosed(t *testing.T) {
	testCases := []struct {
		name string
		sub  string
	}{
		{name: "empty", sub: ""},
		{name: "no separator", sub: "admin7"},
		{name: "unknown kind", sub: "librarian:7"},
		{name: "non-numeric id", sub: "admin:abc"},
		{name: "zero id", sub: "student:0"},
		{name: "negative id", sub: "student:-3"},
		{name: "kind only", sub: "admin:"},
		{name: "id only", sub: ":5"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSubject(tc.sub)
			assert.Error(t, err)
		})
	}
}
