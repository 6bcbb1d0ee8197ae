// Package httpserver is the HTML and JSON front end of gotodo, built on echo.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gotodo/internal/logging"
	"github.com/dmitrijs2005/gotodo/internal/server/metrics"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Authenticate(token string) (int64, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	SessionValidity() time.Duration
}

type TodoService interface {
	Today() string
	CreateTodo(ctx context.Context, userID int64, in services.NewTodo) (*models.Todo, []*models.Todo, error)
	ListTodayTodos(ctx context.Context, userID int64) ([]*models.Todo, error)
	ListAll(ctx context.Context, scope int64) ([]*models.Todo, error)
	ListPending(ctx context.Context, scope int64) ([]*models.Todo, error)
	ListCompleted(ctx context.Context, scope int64) ([]*models.Todo, error)
	GetTodo(ctx context.Context, scope, sno int64) (*models.Todo, error)
	UpdateTodo(ctx context.Context, scope, sno int64, title, content string) error
	DeleteTodo(ctx context.Context, scope, sno int64) error
	ToggleComplete(ctx context.Context, scope, sno int64) (bool, error)
	ListEvents(ctx context.Context, scope int64) ([]models.Event, error)
	ListTodosByDate(ctx context.Context, scope int64, date string) ([]models.DayTodo, error)
	IsPast(todo *models.Todo) bool
}

// Pinger reports database reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Address         string
	SecureCookies   bool
	ShutdownTimeout time.Duration
	// Location renders dates; nil means time.Local.
	Location *time.Location
}

type HTTPServer struct {
	address         string
	secureCookies   bool
	shutdownTimeout time.Duration

	logger  logging.Logger
	users   UserService
	todos   TodoService
	db      Pinger
	metrics *metrics.Metrics
	echo    *echo.Echo
}

func NewHTTPServer(opts Options, l logging.Logger, us UserService, ts TodoService, db Pinger, m *metrics.Metrics) (*HTTPServer, error) {
	r, err := newRenderer(opts.Location)
	if err != nil {
		return nil, err
	}

	s := &HTTPServer{
		address:         opts.Address,
		secureCookies:   opts.SecureCookies,
		shutdownTimeout: opts.ShutdownTimeout,
		logger:          l.With("module", "http_server"),
		users:           us,
		todos:           ts,
		db:              db,
		metrics:         m,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = r
	e.Use(s.requestID, s.accessLog, middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: s.logPanic,
	}))
	s.echo = e
	s.routes()

	return s, nil
}

func (s *HTTPServer) routes() {
	e := s.echo

	e.GET("/", s.index)
	e.GET("/signup", s.signupForm)
	e.POST("/signup", s.signup)
	e.GET("/login", s.loginForm)
	e.POST("/login", s.login)
	e.GET("/logout", s.logout)
	e.GET("/healthz", s.healthz)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	guard := s.requireSession
	e.GET("/todo", s.todoList, guard)
	e.POST("/todo", s.todoCreate, guard)
	e.GET("/delete/:sno", s.todoDelete, guard)
	e.GET("/update/:sno", s.todoEditForm, guard)
	e.POST("/update/:sno", s.todoUpdate, guard)
	e.POST("/complete/:sno", s.todoComplete, guard)
	e.GET("/calendar", s.calendar, guard)
	e.GET("/events", s.events, guard)
	e.GET("/todos_by_date/:date", s.todosByDate, guard)
	e.GET("/tasks", s.listTasks, guard)
	e.GET("/pending", s.listPending, guard)
	e.GET("/completed", s.listCompleted, guard)
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
