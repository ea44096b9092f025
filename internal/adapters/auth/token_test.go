package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWT_IssueAndVerify(t *testing.T) {
	j := NewJWT("test-secret")

	token, err := j.Issue(42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := j.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestJWT_VerifyRejects(t *testing.T) {
	j := NewJWT("test-secret")

	expired, err := j.Issue(42, -time.Minute)
	require.NoError(t, err)

	foreign, err := NewJWT("other-secret").Issue(42, time.Hour)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:  issuer,
		Subject: "42",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"signed with another secret", foreign},
		{"non numeric subject", badSubject},
		{"missing expiry", noExpiry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Verify(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
