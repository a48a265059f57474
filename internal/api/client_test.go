package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/time/rate"

	"github.com/idilsaglam/todoclient/internal/apitest"
	"github.com/idilsaglam/todoclient/internal/model"
)

func newTestClient(t *testing.T, srv *apitest.Server, opts ...Option) *Client {
	t.Helper()
	logger, _ := test.NewNullLogger()
	c, err := New(srv.URL, append([]Option{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "localhost:8000", "http://"} {
		_, err := New(raw)
		assert.Error(t, err, raw)
	}
	c, err := New("http://example.com/prefix/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/prefix", c.BaseURL())
}

func TestLogin(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("ann", "s3cret", "Ann")
	c := newTestClient(t, srv)

	res, err := c.Login(context.Background(), "ann", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ann", res.Username)
	assert.Equal(t, "Ann", res.Name)
	assert.NotEmpty(t, res.Access)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/token/", reqs[0].Path)
	assert.Empty(t, reqs[0].Authorization)
	assert.NotEmpty(t, reqs[0].RequestID)
	assert.JSONEq(t, `{"username":"ann","password":"s3cret"}`, string(reqs[0].Body))
}

func TestLoginWrongPassword(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("ann", "s3cret", "Ann")
	c := newTestClient(t, srv)

	res, err := c.Login(context.Background(), "ann", "nope")
	assert.Nil(t, res)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindUnauthorized, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "No active account found with the given credentials", apiErr.Message)
	assert.True(t, IsUnauthorized(err))
}

func TestTodoRoundTrip(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("ann", "pw", "")
	seeded := srv.Seed("ann", "water plants", false)
	srv.Seed("bob", "not yours", false)
	token := srv.Token("ann", time.Minute)
	c := newTestClient(t, srv)
	ctx := context.Background()

	page, err := c.FetchTodos(ctx, token)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, seeded, page.Results[0])
	assert.Equal(t, 1, page.Count)

	created, err := c.CreateTodo(ctx, "buy milk", token)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", created.Task)
	assert.False(t, created.Done)
	assert.False(t, created.ID.IsZero())

	updated, err := c.UpdateTodo(ctx, created.Toggled(), token)
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, created.ID, updated.ID)

	got, err := c.FetchTodo(ctx, created.ID, token)
	require.NoError(t, err)
	assert.Equal(t, *updated, *got)

	require.NoError(t, c.DeleteTodo(ctx, seeded.ID, token))
	assert.Equal(t, []model.TodoItem{*updated}, srv.Todos("ann"))

	for _, r := range srv.Requests() {
		assert.Equal(t, "Bearer "+token, r.Authorization, r.Method+" "+r.Path)
	}
	puts := srv.Updates()
	require.Len(t, puts, 1)
	assert.True(t, puts[0].Done)
}

func TestFetchTodosEmptyListIsNotNil(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv)
	page, err := c.FetchTodos(context.Background(), srv.Token("ann", time.Minute))
	require.NoError(t, err)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

func TestErrorKinds(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv)
	ctx := context.Background()
	token := srv.Token("ann", time.Minute)

	_, err := c.FetchTodos(ctx, srv.Token("ann", -time.Minute))
	assert.Equal(t, KindUnauthorized, KindOf(err), "expired token")

	_, err = c.FetchTodos(ctx, "")
	assert.Equal(t, KindUnauthorized, KindOf(err), "no token")

	srv.FailNext(http.MethodPost, "/todo/", http.StatusInternalServerError)
	_, err = c.CreateTodo(ctx, "x", token)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Contains(t, err.Error(), "status 500")

	_, err = c.CreateTodo(ctx, "", token)
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Contains(t, err.Error(), "task: This field may not be blank.")

	_, err = c.UpdateTodo(ctx, model.TodoItem{Task: "no id"}, token)
	assert.Equal(t, KindInvalid, KindOf(err))

	_, err = c.FetchTodo(ctx, model.IntID(999), token)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Contains(t, err.Error(), "Not found.")

	assert.Equal(t, 0, srv.Count(http.MethodPut, "/todo/:id/"))
}

func TestNetworkAndDecodeErrors(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	defer broken.Close()

	c, err := New(broken.URL, WithLogger(nullLogger()))
	require.NoError(t, err)
	_, err = c.FetchTodos(context.Background(), "tok")
	assert.Equal(t, KindDecode, KindOf(err))

	broken.Close()
	_, err = c.FetchTodos(context.Background(), "tok")
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestRequestsAreLoggedAndTraced(t *testing.T) {
	srv := apitest.New(t)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	c, err := New(srv.URL, WithLogger(logger), WithTracerProvider(tp))
	require.NoError(t, err)

	_, err = c.FetchTodos(context.Background(), srv.Token("ann", time.Minute))
	require.NoError(t, err)
	_, err = c.Login(context.Background(), "ghost", "x")
	require.Error(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, log.DebugLevel, entries[0].Level)
	assert.Equal(t, "api.request", entries[0].Message)
	assert.Equal(t, "fetch_todos", entries[0].Data["op"])
	assert.Equal(t, http.StatusOK, entries[0].Data["status"])
	assert.Equal(t, log.WarnLevel, entries[1].Level)
	assert.Equal(t, "unauthorized", entries[1].Data["error_kind"])

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "todo.api.fetch_todos", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.Int("http.status_code", http.StatusOK))
	assert.Equal(t, "todo.api.login", spans[1].Name)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
}

func TestRateLimitHonoursContext(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv, WithRateLimit(rate.Every(time.Hour), 1))
	token := srv.Token("ann", time.Minute)

	_, err := c.FetchTodos(context.Background(), token)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.FetchTodos(ctx, token)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/todo/"))
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "nope", serverMessage([]byte(`{"detail":"nope"}`)))
	assert.Equal(t, "a: x; b: y; b: z", serverMessage([]byte(`{"b":["y","z"],"a":"x"}`)))
	assert.Equal(t, "", serverMessage([]byte(`<html>`)))
	assert.True(t, strings.HasPrefix((&Error{Op: "login", Err: errors.New("boom")}).Error(), "login: boom"))
}

func nullLogger() *log.Logger {
	l, _ := test.NewNullLogger()
	return l
}
