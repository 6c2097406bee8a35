package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	service := NewService(nil, "test-secret", time.Hour)

	user := &User{ID: uuid.New(), Email: "broker@charterdesk.io"}
	token, err := service.IssueToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, time.Minute)

	subject, err := service.VerifyToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), subject)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewService(nil, "secret-a", time.Hour)
	verifier := NewService(nil, "secret-b", time.Hour)

	token, err := issuer.IssueToken(&User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token.Token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	service := NewService(nil, "test-secret", time.Hour)
	_, err := service.VerifyToken("not.a.token")
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	service := NewService(nil, "test-secret", -time.Minute)

	token, err := service.IssueToken(&User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = service.VerifyToken(token.Token)
	assert.Error(t, err)
}
