// Package server wires the gotodo application together: configuration,
// logging, the PostgreSQL pool and migrations, the services and the HTTP
// server, plus signal-driven graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gotodo/internal/logging"
	"github.com/dmitrijs2005/gotodo/internal/server/config"
	"github.com/dmitrijs2005/gotodo/internal/server/httpserver"
	"github.com/dmitrijs2005/gotodo/internal/server/metrics"
	"github.com/dmitrijs2005/gotodo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gotodo/internal/server/services"
	"github.com/dmitrijs2005/gotodo/internal/timex"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// seams for tests
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	location    *time.Location
	metrics     *metrics.Metrics
	userService *services.UserService
	todoService *services.TodoService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	loc, err := c.Location()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(c.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(c.DatabaseMaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	clock := timex.SystemClock{Location: loc}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		location:    loc,
		metrics:     metrics.New(),
		userService: services.NewUserService(db, rm, c),
		todoService: services.NewTodoService(db, rm, clock),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s, err := httpserver.NewHTTPServer(httpserver.Options{
		Address:         app.config.EndpointAddrHTTP,
		SecureCookies:   app.config.SecureCookies,
		ShutdownTimeout: app.config.ShutdownTimeout,
		Location:        app.location,
	}, app.logger, app.userService, app.todoService, app.db, app.metrics)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database pool.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "timezone", app.location.String())

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
