package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewJWTIssuer("test-secret", time.Hour)
	now := time.Now()

	raw, exp, err := iss.Issue(42, "a@example.com", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	id, err := iss.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParse_Expired(t *testing.T) {
	iss := NewJWTIssuer("test-secret", time.Minute)
	raw, _, err := iss.Issue(1, "a@example.com", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = iss.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_WrongSecret(t *testing.T) {
	raw, _, err := NewJWTIssuer("one", time.Hour).Issue(1, "a@example.com", time.Now())
	require.NoError(t, err)

	_, err = NewJWTIssuer("two", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "1"})
	raw, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewJWTIssuer("test-secret", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	_, err := NewJWTIssuer("test-secret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
