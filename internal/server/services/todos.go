package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/dbx"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gotodo/internal/server/repositories/todos"
	"github.com/dmitrijs2005/gotodo/internal/timex"
)

// AllUsers is the scope value that spans every user's todos.
const AllUsers int64 = 0

// NewTodo is the input of CreateTodo. Date is optional (YYYY-MM-DD).
type NewTodo struct {
	Title    string
	Content  string
	FromTime string
	ToTime   string
	Date     string
}

// TodoService operates on todos. Scope arguments are user ids; AllUsers
// lifts the ownership restriction.
type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       timex.Clock
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager, clock timex.Clock) *TodoService {
	return &TodoService{db: db, repomanager: m, clock: clock}
}

// Today is the current date (YYYY-MM-DD) according to the service clock.
func (s *TodoService) Today() string {
	return timex.FormatDate(s.clock.Now())
}

// CreateTodo stores a todo for userID and returns it with the refreshed
// list of the user's todos for today.
func (s *TodoService) CreateTodo(ctx context.Context, userID int64, in NewTodo) (*models.Todo, []*models.Todo, error) {
	todo := &models.Todo{
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
		FromTime: strings.TrimSpace(in.FromTime),
		ToTime:   strings.TrimSpace(in.ToTime),
		UserID:   userID,
	}
	if err := checkFields(
		field{"title", todo.Title, models.MaxTitleLen},
		field{"description", todo.Content, models.MaxContentLen},
		field{"from time", todo.FromTime, models.MaxTimeLen},
		field{"to time", todo.ToTime, models.MaxTimeLen},
	); err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	if date := strings.TrimSpace(in.Date); date != "" {
		d, err := timex.ParseDate(date, now.Location())
		if err != nil {
			return nil, nil, common.ErrInvalidDate
		}
		todo.DateCreated = d
	} else {
		todo.DateCreated = now
	}

	created, err := s.repomanager.Todos(s.db).Create(ctx, todo)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating todo: %w", err)
	}

	today, err := s.ListTodayTodos(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return created, today, nil
}

// ListTodayTodos returns the user's todos created on the current calendar day.
func (s *TodoService) ListTodayTodos(ctx context.Context, userID int64) ([]*models.Todo, error) {
	from, to := timex.DayBounds(s.clock.Now())
	return s.repomanager.Todos(s.db).ListByUserAndDate(ctx, userID, from, to)
}

func (s *TodoService) ListAll(ctx context.Context, scope int64) ([]*models.Todo, error) {
	return s.list(ctx, models.TodoFilter{UserID: scope})
}

func (s *TodoService) ListPending(ctx context.Context, scope int64) ([]*models.Todo, error) {
	completed := false
	return s.list(ctx, models.TodoFilter{UserID: scope, Completed: &completed})
}

func (s *TodoService) ListCompleted(ctx context.Context, scope int64) ([]*models.Todo, error) {
	completed := true
	return s.list(ctx, models.TodoFilter{UserID: scope, Completed: &completed})
}

func (s *TodoService) list(ctx context.Context, f models.TodoFilter) ([]*models.Todo, error) {
	return s.repomanager.Todos(s.db).List(ctx, f)
}

// GetTodo returns one todo of the scope, or ErrorNotFound.
func (s *TodoService) GetTodo(ctx context.Context, scope, sno int64) (*models.Todo, error) {
	return s.find(ctx, s.repomanager.Todos(s.db), scope, sno)
}

// UpdateTodo overwrites title and content of a todo dated today or later.
func (s *TodoService) UpdateTodo(ctx context.Context, scope, sno int64, title, content string) error {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if err := checkFields(
		field{"title", title, models.MaxTitleLen},
		field{"description", content, models.MaxContentLen},
	); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Todos(tx)
		if _, err := s.findMutable(ctx, repo, scope, sno); err != nil {
			return err
		}
		return repo.Update(ctx, sno, title, content)
	})
}

// DeleteTodo removes a todo dated today or later.
func (s *TodoService) DeleteTodo(ctx context.Context, scope, sno int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Todos(tx)
		if _, err := s.findMutable(ctx, repo, scope, sno); err != nil {
			return err
		}
		return repo.Delete(ctx, sno)
	})
}

// ToggleComplete flips the completed flag of a todo dated today or later
// and returns the new value.
func (s *TodoService) ToggleComplete(ctx context.Context, scope, sno int64) (bool, error) {
	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (bool, error) {
		repo := s.repomanager.Todos(tx)
		todo, err := s.findMutable(ctx, repo, scope, sno)
		if err != nil {
			return false, err
		}
		completed := !todo.Completed
		if err := repo.SetCompleted(ctx, sno, completed); err != nil {
			return false, err
		}
		return completed, nil
	})
}

// ListEvents projects the scope's todos onto calendar events.
func (s *TodoService) ListEvents(ctx context.Context, scope int64) ([]models.Event, error) {
	items, err := s.ListAll(ctx, scope)
	if err != nil {
		return nil, err
	}

	loc := s.clock.Now().Location()
	events := make([]models.Event, 0, len(items))
	for _, t := range items {
		events = append(events, ToEvent(t, loc))
	}
	return events, nil
}

// ListTodosByDate returns the scope's todos created on date (YYYY-MM-DD).
func (s *TodoService) ListTodosByDate(ctx context.Context, scope int64, date string) ([]models.DayTodo, error) {
	day, err := timex.ParseDate(strings.TrimSpace(date), s.clock.Now().Location())
	if err != nil {
		return nil, common.ErrInvalidDate
	}

	from, to := timex.DayBounds(day)
	items, err := s.list(ctx, models.TodoFilter{UserID: scope, From: from, To: to})
	if err != nil {
		return nil, err
	}

	out := make([]models.DayTodo, 0, len(items))
	for _, t := range items {
		out = append(out, models.DayTodo{Title: t.Title, Content: t.Content, FromTime: t.FromTime, ToTime: t.ToTime})
	}
	return out, nil
}

// IsPast reports whether the temporal guard freezes todo.
func (s *TodoService) IsPast(todo *models.Todo) bool {
	return timex.BeforeDay(todo.DateCreated, s.clock.Now())
}

func (s *TodoService) find(ctx context.Context, repo todos.Repository, scope, sno int64) (*models.Todo, error) {
	todo, err := repo.FindByID(ctx, sno)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading todo %d: %w", sno, err)
	}
	if scope != AllUsers && todo.UserID != scope {
		return nil, common.ErrorNotFound
	}
	return todo, nil
}

func (s *TodoService) findMutable(ctx context.Context, repo todos.Repository, scope, sno int64) (*models.Todo, error) {
	todo, err := s.find(ctx, repo, scope, sno)
	if err != nil {
		return nil, err
	}
	if s.IsPast(todo) {
		return nil, common.ErrPastTaskImmutable
	}
	return todo, nil
}
