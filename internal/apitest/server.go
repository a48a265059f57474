// Package apitest runs an in-process fake of the remote to-do service:
// the token endpoint plus list/create/retrieve/update/destroy on /todo/,
// scoped per user and guarded by HS256 bearer tokens.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/idilsaglam/todoclient/internal/model"
)

// TokenTTL mirrors the access token lifetime of the real service.
const TokenTTL = 5 * time.Minute

// Request is one recorded call, as the fake saw it.
type Request struct {
	Method        string
	Route         string
	Path          string
	Authorization string
	RequestID     string
	Body          []byte
}

type user struct {
	password string
	name     string
}

type failure struct {
	status int
	body   map[string]any
}

type Server struct {
	URL string

	srv    *httptest.Server
	secret []byte

	mu       sync.Mutex
	users    map[string]user
	todos    map[string][]model.TodoItem
	nextID   int64
	failures map[string][]failure
	requests []Request
}

// New starts a fake service and stops it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:   []byte("apitest-secret"),
		users:    make(map[string]user),
		todos:    make(map[string][]model.TodoItem),
		failures: make(map[string][]failure),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.recordAndInject)

	e.POST("/api/token/", s.obtainToken)
	g := e.Group("/todo", s.requireToken)
	g.GET("/", s.listTodos)
	g.POST("/", s.createTodo)
	g.GET("/:id/", s.retrieveTodo)
	g.PUT("/:id/", s.updateTodo)
	g.DELETE("/:id/", s.destroyTodo)

	s.srv = httptest.NewServer(e)
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) AddUser(username, password, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = user{password: password, name: name}
}

// Seed stores an item for username as if it had been created earlier.
func (s *Server) Seed(username, task string, done bool) model.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(username, task, done)
}

// Todos is a copy of username's items in listing order.
func (s *Server) Todos(username string) []model.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.TodoItem(nil), s.todos[username]...)
}

// Token signs an access token for username valid for ttl. A negative ttl
// yields an already expired token.
func (s *Server) Token(username string, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"token_type": "access",
		"username":   username,
		"exp":        time.Now().Add(ttl).Unix(),
		"iat":        time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("apitest: sign token: %v", err))
	}
	return signed
}

// FailNext makes the next call to method+route answer status with a
// {"detail": ...} body. Routes are the registered patterns, e.g. "/todo/:id/".
func (s *Server) FailNext(method, route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + route
	s.failures[key] = append(s.failures[key], failure{
		status: status,
		body:   map[string]any{"detail": http.StatusText(status)},
	})
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many recorded calls hit method+route.
func (s *Server) Count(method, route string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Route == route {
			n++
		}
	}
	return n
}

// Updates decodes the bodies of every PUT the fake received.
func (s *Server) Updates() []model.TodoItem {
	var out []model.TodoItem
	for _, r := range s.Requests() {
		if r.Method != http.MethodPut {
			continue
		}
		var it model.TodoItem
		if err := json.Unmarshal(r.Body, &it); err == nil {
			out = append(out, it)
		}
	}
	return out
}

func (s *Server) insertLocked(username, task string, done bool) model.TodoItem {
	s.nextID++
	it := model.TodoItem{ID: model.IntID(s.nextID), Task: task, Done: done}
	s.todos[username] = append(s.todos[username], it)
	return it
}

func (s *Server) recordAndInject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		key := req.Method + " " + c.Path()

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        req.Method,
			Route:         c.Path(),
			Path:          req.URL.Path,
			Authorization: req.Header.Get(echo.HeaderAuthorization),
			RequestID:     req.Header.Get(echo.HeaderXRequestID),
			Body:          body,
		})
		var f *failure
		if q := s.failures[key]; len(q) > 0 {
			f = &q[0]
			s.failures[key] = q[1:]
		}
		s.mu.Unlock()

		if f != nil {
			return c.JSON(f.status, f.body)
		}
		return next(c)
	}
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

func (s *Server) obtainToken(c echo.Context) error {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "malformed request")
	}
	s.mu.Lock()
	u, ok := s.users[in.Username]
	s.mu.Unlock()
	if !ok || u.password != in.Password {
		return detail(c, http.StatusUnauthorized, "No active account found with the given credentials")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"username": in.Username,
		"name":     u.name,
		"access":   s.Token(in.Username, TokenTTL),
	})
}

func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(echo.HeaderAuthorization)
		if raw == "" {
			return detail(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
		}
		tokenString, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok {
			return detail(c, http.StatusUnauthorized, "Authorization header must contain two space-delimited values")
		}
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return detail(c, http.StatusUnauthorized, "Given token not valid for any token type")
		}
		username, _ := claims["username"].(string)
		c.Set("username", username)
		return next(c)
	}
}

func owner(c echo.Context) string {
	u, _ := c.Get("username").(string)
	return u
}

func (s *Server) listTodos(c echo.Context) error {
	items := s.Todos(owner(c))
	if items == nil {
		items = []model.TodoItem{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"count":    len(items),
		"next":     nil,
		"previous": nil,
		"results":  items,
	})
}

func (s *Server) createTodo(c echo.Context) error {
	var in struct {
		Task string `json:"task"`
	}
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "malformed request")
	}
	if strings.TrimSpace(in.Task) == "" {
		return c.JSON(http.StatusBadRequest, map[string][]string{"task": {"This field may not be blank."}})
	}
	s.mu.Lock()
	it := s.insertLocked(owner(c), in.Task, false)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, it)
}

// indexLocked finds id among username's items, or -1.
func (s *Server) indexLocked(username, id string) int {
	for i, it := range s.todos[username] {
		if it.ID.String() == id {
			return i
		}
	}
	return -1
}

func (s *Server) retrieveTodo(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(owner(c), c.Param("id"))
	if i < 0 {
		return detail(c, http.StatusNotFound, "Not found.")
	}
	return c.JSON(http.StatusOK, s.todos[owner(c)][i])
}

func (s *Server) updateTodo(c echo.Context) error {
	var in model.TodoItem
	if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil {
		return detail(c, http.StatusBadRequest, "malformed request")
	}
	if strings.TrimSpace(in.Task) == "" {
		return c.JSON(http.StatusBadRequest, map[string][]string{"task": {"This field may not be blank."}})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := owner(c)
	i := s.indexLocked(u, c.Param("id"))
	if i < 0 {
		return detail(c, http.StatusNotFound, "Not found.")
	}
	stored := s.todos[u][i]
	stored.Task = in.Task
	stored.Done = in.Done
	s.todos[u][i] = stored
	return c.JSON(http.StatusOK, stored)
}

func (s *Server) destroyTodo(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := owner(c)
	i := s.indexLocked(u, c.Param("id"))
	if i < 0 {
		return detail(c, http.StatusNotFound, "Not found.")
	}
	s.todos[u] = append(s.todos[u][:i:i], s.todos[u][i+1:]...)
	return c.NoContent(http.StatusNoContent)
}
