package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeIssuerVerifier_RoundTrip(t *testing.T) {
	issuer := NewCodeIssuer("test-secret")
	verifier := NewCodeVerifier("test-secret")

	code, err := issuer.Issue("a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, code)

	email, err := verifier.Verify(code)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)
}

func TestCodeVerifier_WrongSecret(t *testing.T) {
	issuer := NewCodeIssuer("test-secret")
	verifier := NewCodeVerifier("other-secret")

	code, err := issuer.Issue("a@b.com")
	require.NoError(t, err)

	_, err = verifier.Verify(code)
	require.Error(t, err)
}

func TestCodeVerifier_Garbage(t *testing.T) {
	verifier := NewCodeVerifier("test-secret")

	_, err := verifier.Verify("not-a-token")
	require.Error(t, err)

	_, err = verifier.Verify("")
	require.Error(t, err)
}
