package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT(t *testing.T) {
	signed, err := GenerateJWT("treasurer-1", "secret", time.Hour, "temple-ledger")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "treasurer-1", claims.Subject)
	assert.Equal(t, "temple-ledger", claims.Issuer)
}

func TestGenerateJWT_Expired(t *testing.T) {
	signed, err := GenerateJWT("treasurer-1", "secret", -time.Minute, "temple-ledger")
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
