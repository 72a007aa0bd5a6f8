package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	tok, err := issuer.Generate("user-1", "a@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)

	got, err := issuer.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, tok.ID, got.ID)
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := issuer.Generate("user-1", "a@example.com")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(tok.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	tok, err := NewIssuer("one", time.Hour).Generate("user-1", "a@example.com")
	require.NoError(t, err)

	_, err = NewIssuer("two", time.Hour).Verify(tok.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "id",
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewIssuer("secret", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
