package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagicLinkRoundTrip(t *testing.T) {
	svc := NewAuthService()

	link, err := svc.GenerateMagicLink("user@example.com", "http://localhost:3001")
	require.NoError(t, err)
	require.Contains(t, link, "http://localhost:3001/api/auth/magic-link?token=")

	token := link[strings.Index(link, "token=")+len("token="):]
	email, err := svc.VerifyMagicLinkToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)

	t.Run("tokens are one-time", func(t *testing.T) {
		_, err := svc.VerifyMagicLinkToken(token)
		assert.Error(t, err)
	})
}

func TestVerifyMagicLinkTokenUnknown(t *testing.T) {
	svc := NewAuthService()
	_, err := svc.VerifyMagicLinkToken("never-issued")
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	svc := NewAuthService()

	token, err := svc.CreateJWT("user@example.com")
	require.NoError(t, err)

	email, err := svc.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	svc := NewAuthService()

	_, err := svc.VerifyJWT("not.a.jwt")
	assert.Error(t, err)

	token, err := svc.CreateJWT("user@example.com")
	require.NoError(t, err)
	_, err = svc.VerifyJWT(token + "tampered")
	assert.Error(t, err)
}
