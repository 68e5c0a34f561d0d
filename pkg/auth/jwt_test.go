package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")

	token, err := CreateAccessToken("u-1", "Ann", "ann@campus.edu", time.Hour)
	require.NoError(t, err)

	c, err := ParseValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.Sub)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "ann@campus.edu", c.Email)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")

	token, err := CreateAccessToken("u-1", "Ann", "ann@campus.edu", -time.Minute)
	require.NoError(t, err)

	_, err = ParseValidate(token)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")
	token, err := CreateAccessToken("u-1", "Ann", "ann@campus.edu", time.Hour)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ParseValidate(token)
	assert.Error(t, err)
}
