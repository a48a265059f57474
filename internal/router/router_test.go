package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoclient/internal/model"
)

var signedIn = model.Session{Username: "ann", AccessToken: "t"}

func TestProtectedPathsRedirectWithOrigin(t *testing.T) {
	r := Default()
	for _, p := range []string{"/protected", "/protected/", "/protected/list", "/protected/a/b", "protected/x"} {
		res := r.Resolve(model.At(p), model.Session{})
		require.NotNil(t, res.Redirect, p)
		assert.Equal(t, PathLogin, res.Redirect.Pathname, p)
		require.NotNil(t, res.Redirect.From, p)
		assert.Equal(t, Clean(p), res.Redirect.From.Pathname, p)
		assert.Equal(t, ViewNone, res.View(), p)
	}
}

func TestSignedInReachesProtected(t *testing.T) {
	res := Default().Resolve(model.At("/protected/list"), signedIn)
	assert.Nil(t, res.Redirect)
	assert.Equal(t, ViewTodos, res.View())
}

func TestPublicRoutesIgnoreSession(t *testing.T) {
	r := Default()
	for _, s := range []model.Session{{}, signedIn} {
		assert.Equal(t, ViewPublic, r.Resolve(model.At("/public"), s).View())
		assert.Equal(t, ViewLogin, r.Resolve(model.At("/login"), s).View())
		assert.Equal(t, ViewNone, r.Resolve(model.At("/"), s).View())
		assert.Nil(t, r.Resolve(model.At("/nowhere"), s).Route)
	}
}

func TestMatchNeedsSegmentBoundary(t *testing.T) {
	r := Default()
	assert.Nil(t, r.Match("/publicity"))
	assert.Nil(t, r.Match("/protectedness"))
	require.NotNil(t, r.Match("/public/page"))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "/", Clean(""))
	assert.Equal(t, "/", Clean("///"))
	assert.Equal(t, "/a/b", Clean("a//b/"))
}

func TestHistory(t *testing.T) {
	h := NewHistory(model.At("/"))
	assert.False(t, h.Back())

	h.Push(model.At("/public"))
	h.Push(model.At("/protected"))
	from := model.At("/protected")
	h.Replace(model.Location{Pathname: "/login", From: &from})
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, "/login", h.Current().Pathname)

	h.Replace(model.At("/protected"))
	require.True(t, h.Back())
	assert.Equal(t, "/public", h.Current().Pathname)
}
