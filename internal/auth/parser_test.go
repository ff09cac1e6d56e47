package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	parser := NewParser("secret")
	userID := uuid.New()

	token, err := parser.Sign(Claims{
		UserID: userID.String(),
		Role:   "OPERATOR",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	principal, err := parser.Parse(token)
	require.NoError(t, err)
	require.Equal(t, userID, principal.UserID)
	require.True(t, principal.IsOperator())
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, err := NewParser("other").Sign(Claims{UserID: uuid.NewString(), Role: "ADMIN"})
	require.NoError(t, err)

	_, err = NewParser("secret").Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	parser := NewParser("secret")
	token, err := parser.Sign(Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	require.NoError(t, err)

	_, err = parser.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
