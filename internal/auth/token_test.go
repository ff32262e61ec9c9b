package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("unit-test-secret", 60)

	token, expiresAt, err := tm.Issue("user-1", "a@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.SubjectID)
	require.Equal(t, "a@example.com", claims.Email)
	require.True(t, claims.IsAdmin)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	tm := &TokenManager{secret: []byte("unit-test-secret"), ttl: -time.Minute}

	token, _, err := tm.Issue("user-1", "a@example.com", false)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_BadSignature(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	token, _, err := issuer.Issue("user-1", "a@example.com", false)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.ErrorIs(t, err, ErrTokenSignature)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("unit-test-secret", 60)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := tm.Parse(raw)
		require.ErrorIs(t, err, ErrTokenMalformed, "input %q", raw)
	}
}
