package jwtsigner

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign_RoundTrip(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Secret: "topsecret", Algorithm: "HS256", ExpiresIn: time.Minute})
	require.NoError(t, err)

	token, err := s.Sign(map[string]any{
		"documentType": "word",
		"document":     map[string]any{"key": "k1"},
	})
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		return []byte("topsecret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "word", claims["documentType"])

	doc := claims["document"].(map[string]any)
	assert.Equal(t, "k1", doc["key"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))
}

func TestSign_WrongSecretRejected(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Secret: "topsecret", Algorithm: "HS512", ExpiresIn: time.Minute})
	require.NoError(t, err)

	token, err := s.Sign(map[string]any{"documentType": "cell"})
	require.NoError(t, err)

	_, err = jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		return []byte("other"), nil
	}, jwt.WithValidMethods([]string{"HS512"}))

	assert.Error(t, err)
}

func TestNew_UnsupportedAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Secret: "topsecret", Algorithm: "RS256"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported algorithm")
}

func TestNew_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Algorithm: "HS256"})

	assert.Error(t, err)
}
