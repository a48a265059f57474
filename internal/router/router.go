// Package router maps client-side paths to screens and keeps signed-out
// visitors away from protected ones.
package router

import (
	"strings"

	"github.com/idilsaglam/todoclient/internal/model"
)

// View identifies a screen.
type View int

const (
	ViewNone View = iota
	ViewPublic
	ViewLogin
	ViewTodos
)

const (
	PathRoot      = "/"
	PathPublic    = "/public"
	PathLogin     = "/login"
	PathProtected = "/protected"
)

// Route binds a path pattern to a screen. A pattern matches its own path and
// every path below it.
type Route struct {
	Pattern   string
	View      View
	Protected bool
}

// Resolution is what the router decided for a location: either a route to
// render or a redirect to follow instead.
type Resolution struct {
	Route    *Route
	Redirect *model.Location
}

// View is the screen to render; ViewNone when nothing matched or a redirect
// is pending.
func (r Resolution) View() View {
	if r.Redirect != nil || r.Route == nil {
		return ViewNone
	}
	return r.Route.View
}

type Router struct {
	routes    []Route
	loginPath string
}

// New builds a router trying routes in order.
func New(loginPath string, routes ...Route) *Router {
	return &Router{routes: routes, loginPath: loginPath}
}

// Default is the application's route table.
func Default() *Router {
	return New(PathLogin,
		Route{Pattern: PathPublic, View: ViewPublic},
		Route{Pattern: PathLogin, View: ViewLogin},
		Route{Pattern: PathProtected, View: ViewTodos, Protected: true},
	)
}

// Match returns the first route whose pattern covers path.
func (r *Router) Match(path string) *Route {
	path = Clean(path)
	for i := range r.routes {
		if covers(r.routes[i].Pattern, path) {
			return &r.routes[i]
		}
	}
	return nil
}

// Resolve applies the guard: a protected route with nobody signed in
// resolves to a redirect to the login path carrying loc as its origin.
func (r *Router) Resolve(loc model.Location, session model.Session) Resolution {
	route := r.Match(loc.Pathname)
	if route == nil {
		return Resolution{}
	}
	if route.Protected && !session.Authenticated() {
		from := model.Location{Pathname: Clean(loc.Pathname)}
		return Resolution{
			Route:    route,
			Redirect: &model.Location{Pathname: r.loginPath, From: &from},
		}
	}
	return Resolution{Route: route}
}

// Clean normalizes a path: leading slash, no trailing slash, no empty
// segments.
func Clean(p string) string {
	segs := strings.Split(p, "/")
	out := segs[:0]
	for _, s := range segs {
		if s != "" {
			out = append(out, s)
		}
	}
	return "/" + strings.Join(out, "/")
}

func covers(pattern, path string) bool {
	pattern = Clean(pattern)
	if pattern == "/" {
		return path == "/"
	}
	return path == pattern || strings.HasPrefix(path, pattern+"/")
}
