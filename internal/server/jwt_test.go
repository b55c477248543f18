package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)

	token, err := svc.GenerateToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.ValidateToken(token))
}

func TestJWTService_WrongSecretRejected(t *testing.T) {
	token, err := NewJWTService("secret-a", 1).GenerateToken()
	require.NoError(t, err)

	assert.Error(t, NewJWTService("secret-b", 1).ValidateToken(token))
}

func TestJWTService_GarbageRejected(t *testing.T) {
	svc := NewJWTService("test-secret", 1)

	assert.Error(t, svc.ValidateToken("not.a.token"))
	assert.Error(t, svc.ValidateToken(""))
}

func TestJWTService_DisabledWithoutSecret(t *testing.T) {
	svc := NewJWTService("", 1)

	assert.False(t, svc.Enabled())
	_, err := svc.GenerateToken()
	assert.Error(t, err)
	assert.Error(t, svc.ValidateToken("anything"))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc123", bearerToken("Bearer abc123"))
	assert.Equal(t, "", bearerToken("abc123"))
	assert.Equal(t, "", bearerToken(""))
	assert.Equal(t, "", bearerToken("Basic abc123"))
}
