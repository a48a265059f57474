package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoclient/internal/model"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestStoreStartsSignedOut(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Authenticated())
	assert.Equal(t, model.Session{}, s.Session())
	assert.Empty(t, s.Token())
}

func TestSignInIsVisibleBeforeCallback(t *testing.T) {
	s := NewStore()
	var seen model.Session
	s.SignInWith(func() { seen = s.Session() }, "ann", "Ann", "Bearer abc")

	assert.Equal(t, "ann", seen.Username)
	assert.Equal(t, "Ann", seen.Name)
	assert.Equal(t, "abc", seen.AccessToken)
	assert.Nil(t, seen.ExpiresAt, "opaque token has no expiry")
	assert.True(t, s.Authenticated())
}

func TestSignInReplacesPreviousSession(t *testing.T) {
	s := NewStore()
	s.SignIn("ann", "Ann", "t1")
	got := s.SignIn("bob", "", "t2")
	assert.Equal(t, model.Session{Username: "bob", AccessToken: "t2"}, got)
	assert.Equal(t, got, s.Session())
}

func TestSignOutClearsEverything(t *testing.T) {
	s := NewStore()
	s.SignIn("ann", "Ann", "t1")
	called := false
	s.SignOutWith(func() {
		called = true
		assert.False(t, s.Authenticated())
	})
	assert.True(t, called)
	assert.Equal(t, model.Session{}, s.Session())

	prev := s.SignOut()
	assert.Equal(t, model.Session{}, prev)
}

func TestInspectReadsClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, jwt.MapClaims{"username": "ann", "user_id": 42, "exp": exp.Unix()})

	c, ok := Inspect(tok)
	require.True(t, ok)
	assert.Equal(t, "ann", c.Username)
	assert.Equal(t, "42", c.UserID)
	require.NotNil(t, c.ExpiresAt)
	assert.True(t, exp.Equal(*c.ExpiresAt))

	s := NewStore()
	sess := s.SignIn("ann", "", tok)
	require.NotNil(t, sess.ExpiresAt)

	_, ok = Inspect("not-a-jwt")
	assert.False(t, ok)
}

func TestTokenFromEnv(t *testing.T) {
	t.Setenv(EnvToken, "  Bearer xyz ")
	assert.Equal(t, "xyz", TokenFromEnv())
	t.Setenv(EnvToken, "")
	assert.Empty(t, TokenFromEnv())
}
