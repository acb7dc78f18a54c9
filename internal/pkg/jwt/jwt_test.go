package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateToken("ws-1", "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ws-1", claims.WorkspaceID)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, _, err := New("one", time.Hour).GenerateToken("ws-1", "alice")
	require.NoError(t, err)

	_, err = New("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	token, _, err := New("s", -time.Minute).GenerateToken("ws-1", "alice")
	require.NoError(t, err)

	_, err = New("s", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiresAtReadsForeignToken(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	raw := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"user_id": 7,
		"exp":     exp.Unix(),
	})
	token, err := raw.SignedString([]byte("remote-secret"))
	require.NoError(t, err)

	got, err := ExpiresAt(token)
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))
}

func TestExpiresAtWithoutExp(t *testing.T) {
	raw := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"user_id": 7})
	token, err := raw.SignedString([]byte("remote-secret"))
	require.NoError(t, err)

	_, err = ExpiresAt(token)
	assert.ErrorIs(t, err, ErrNoExpiry)
}

func TestExpiresAtGarbage(t *testing.T) {
	_, err := ExpiresAt("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
