package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/logging"
	"github.com/dmitrijs2005/gotodo/internal/server/metrics"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/server/services"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeUsers struct {
	users  map[int64]*models.User
	tokens map[string]int64

	registerErr error
	loginErr    error
	getErr      error

	registered []string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:  map[int64]*models.User{1: {ID: 1, UserName: "alice", Email: "alice@example.com"}},
		tokens: map[string]int64{"tok-1": 1, "tok-ghost": 42},
	}
}

func (f *fakeUsers) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered = append(f.registered, username)
	return &models.User{ID: 2, UserName: username, Email: email}, nil
}

func (f *fakeUsers) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.users[1], "tok-1", nil
}

func (f *fakeUsers) Authenticate(token string) (int64, error) {
	if token == "" {
		return 0, common.ErrorUnauthorized
	}
	id, ok := f.tokens[token]
	if !ok {
		return 0, common.ErrInvalidToken
	}
	return id, nil
}

func (f *fakeUsers) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsers) SessionValidity() time.Duration { return time.Hour }

type fakeTodos struct {
	today     []*models.Todo
	all       []*models.Todo
	pending   []*models.Todo
	completed []*models.Todo
	todo      *models.Todo
	events    []models.Event
	day       []models.DayTodo
	past      bool

	err     error // returned by create, get and the mutations
	listErr error

	created services.NewTodo
	calls   []string
}

func (f *fakeTodos) record(op string, scope, sno int64) {
	f.calls = append(f.calls, fmt.Sprintf("%s:%d:%d", op, scope, sno))
}

func (f *fakeTodos) Today() string { return "2024-05-10" }

func (f *fakeTodos) CreateTodo(ctx context.Context, userID int64, in services.NewTodo) (*models.Todo, []*models.Todo, error) {
	f.created = in
	if f.err != nil {
		return nil, nil, f.err
	}
	t := &models.Todo{Sno: 99, Title: in.Title, Content: in.Content, FromTime: in.FromTime, ToTime: in.ToTime, UserID: userID}
	f.today = append(f.today, t)
	return t, f.today, nil
}

func (f *fakeTodos) ListTodayTodos(ctx context.Context, userID int64) ([]*models.Todo, error) {
	f.record("today", userID, 0)
	return f.today, f.listErr
}

func (f *fakeTodos) ListAll(ctx context.Context, scope int64) ([]*models.Todo, error) {
	f.record("all", scope, 0)
	return f.all, f.listErr
}

func (f *fakeTodos) ListPending(ctx context.Context, scope int64) ([]*models.Todo, error) {
	f.record("pending", scope, 0)
	return f.pending, f.listErr
}

func (f *fakeTodos) ListCompleted(ctx context.Context, scope int64) ([]*models.Todo, error) {
	f.record("completed", scope, 0)
	return f.completed, f.listErr
}

func (f *fakeTodos) GetTodo(ctx context.Context, scope, sno int64) (*models.Todo, error) {
	f.record("get", scope, sno)
	return f.todo, f.err
}

func (f *fakeTodos) UpdateTodo(ctx context.Context, scope, sno int64, title, content string) error {
	f.record("update", scope, sno)
	return f.err
}

func (f *fakeTodos) DeleteTodo(ctx context.Context, scope, sno int64) error {
	f.record("delete", scope, sno)
	return f.err
}

func (f *fakeTodos) ToggleComplete(ctx context.Context, scope, sno int64) (bool, error) {
	f.record("complete", scope, sno)
	return true, f.err
}

func (f *fakeTodos) ListEvents(ctx context.Context, scope int64) ([]models.Event, error) {
	f.record("events", scope, 0)
	return f.events, f.listErr
}

func (f *fakeTodos) ListTodosByDate(ctx context.Context, scope int64, date string) ([]models.DayTodo, error) {
	f.record("by_date:"+date, scope, 0)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.day, nil
}

func (f *fakeTodos) IsPast(*models.Todo) bool { return f.past }

type fakePinger struct{ err error }

func (p *fakePinger) PingContext(context.Context) error { return p.err }

// ---- helpers ----

type testEnv struct {
	srv   *HTTPServer
	users *fakeUsers
	todos *fakeTodos
	db    *fakePinger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{users: newFakeUsers(), todos: &fakeTodos{}, db: &fakePinger{}}
	srv, err := NewHTTPServer(Options{Address: "127.0.0.1:0", ShutdownTimeout: time.Second},
		logging.Nop{}, env.users, env.todos, env.db, metrics.New())
	require.NoError(t, err)
	env.srv = srv
	return env
}

func (env *testEnv) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return env.send(env.newRequest(method, target, form), cookies)
}

func (env *testEnv) doWithHeader(method, target string, h http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := env.newRequest(method, target, nil)
	for k, vs := range h {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return env.send(req, cookies)
}

func (env *testEnv) newRequest(method, target string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req
}

func (env *testEnv) send(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func authCookie() *http.Cookie {
	return &http.Cookie{Name: sessionCookie, Value: "tok-1"}
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// flashOf decodes the flash set by a response, if any.
func flashOf(t *testing.T, rec *httptest.ResponseRecorder) Flash {
	t.Helper()
	c := responseCookie(rec, flashCookie)
	require.NotNil(t, c, "flash cookie expected")
	v, err := url.ParseQuery(c.Value)
	require.NoError(t, err)
	return Flash{Category: v.Get("c"), Message: v.Get("m")}
}
