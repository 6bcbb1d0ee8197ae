package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/dbx"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	todosrepo "github.com/dmitrijs2005/gotodo/internal/server/repositories/todos"
	usersrepo "github.com/dmitrijs2005/gotodo/internal/server/repositories/users"
)

// --- sqlmock helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func expectCommit(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

func expectRollback(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}

// --- in-memory users repository ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User

	// forced errors
	getErr    error
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
		if existing.UserName == u.UserName {
			return nil, common.ErrDuplicateUsername
		}
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.UserName == login })
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

// --- in-memory todos repository ---

type fakeTodosRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Todo
	writes int

	findErr   error
	createErr error
	listErr   error
}

func newFakeTodosRepo() *fakeTodosRepo {
	return &fakeTodosRepo{items: map[int64]*models.Todo{}}
}

func (f *fakeTodosRepo) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	cp := *t
	cp.Sno = f.nextID
	f.items[cp.Sno] = &cp
	f.writes++
	out := cp
	return &out, nil
}

func (f *fakeTodosRepo) FindByID(ctx context.Context, sno int64) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.items[sno]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTodosRepo) List(ctx context.Context, filter models.TodoFilter) ([]*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Todo, 0)
	for _, t := range f.items {
		if filter.UserID != 0 && t.UserID != filter.UserID {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		if !filter.From.IsZero() && t.DateCreated.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !t.DateCreated.Before(filter.To) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sno < out[j].Sno })
	return out, nil
}

func (f *fakeTodosRepo) ListByUserAndDate(ctx context.Context, userID int64, from, to time.Time) ([]*models.Todo, error) {
	return f.List(ctx, models.TodoFilter{UserID: userID, From: from, To: to})
}

func (f *fakeTodosRepo) mutate(sno int64, fn func(*models.Todo)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[sno]
	if !ok {
		return common.ErrorNotFound
	}
	fn(t)
	f.writes++
	return nil
}

func (f *fakeTodosRepo) Update(ctx context.Context, sno int64, title, content string) error {
	return f.mutate(sno, func(t *models.Todo) { t.Title, t.Content = title, content })
}

func (f *fakeTodosRepo) Delete(ctx context.Context, sno int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[sno]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, sno)
	f.writes++
	return nil
}

func (f *fakeTodosRepo) SetCompleted(ctx context.Context, sno int64, completed bool) error {
	return f.mutate(sno, func(t *models.Todo) { t.Completed = completed })
}

// put stores a todo as-is, bypassing the service.
func (f *fakeTodosRepo) put(t models.Todo) *models.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.Sno = f.nextID
	f.items[t.Sno] = &t
	cp := t
	return &cp
}

// --- repository manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTodosRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), t: newFakeTodosRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Todos(db dbx.DBTX) todosrepo.Repository       { return m.t }

func userWithPassword(name, password string) *models.User {
	return &models.User{UserName: name, Email: name + "@example.com", Password: password}
}
