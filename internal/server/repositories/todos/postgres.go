// Package todos provides the PostgreSQL-backed todo repository.
package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/dbx"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
)

const selectColumns = `SELECT sno, title, content, date_created, from_time, to_time, completed, user_id FROM todo`

// PostgresRepository implements todo storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the todo and fills in its serial number.
func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query :=
		`INSERT INTO todo (title, content, date_created, from_time, to_time, completed, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING sno
		 `

	err := r.db.QueryRowContext(ctx, query,
		todo.Title, todo.Content, todo.DateCreated, todo.FromTime, todo.ToTime, todo.Completed, todo.UserID).
		Scan(&todo.Sno)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

// FindByID returns common.ErrorNotFound when no todo has the given serial number.
func (r *PostgresRepository) FindByID(ctx context.Context, sno int64) (*models.Todo, error) {
	query := selectColumns + ` WHERE sno = $1`

	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, sno))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

// List returns the todos matching filter in persistence (sno) order.
func (r *PostgresRepository) List(ctx context.Context, filter models.TodoFilter) ([]*models.Todo, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.UserID != 0 {
		add("user_id = $%d", filter.UserID)
	}
	if filter.Completed != nil {
		add("completed = $%d", *filter.Completed)
	}
	if !filter.From.IsZero() {
		add("date_created >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("date_created < $%d", filter.To)
	}

	query := selectColumns
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY sno"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select todos: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// ListByUserAndDate returns the user's todos created in [from, to).
func (r *PostgresRepository) ListByUserAndDate(ctx context.Context, userID int64, from, to time.Time) ([]*models.Todo, error) {
	return r.List(ctx, models.TodoFilter{UserID: userID, From: from, To: to})
}

// Update overwrites title and content.
func (r *PostgresRepository) Update(ctx context.Context, sno int64, title, content string) error {
	query := `UPDATE todo SET title = $1, content = $2 WHERE sno = $3`
	return r.execOne(ctx, query, title, content, sno)
}

func (r *PostgresRepository) Delete(ctx context.Context, sno int64) error {
	query := `DELETE FROM todo WHERE sno = $1`
	return r.execOne(ctx, query, sno)
}

func (r *PostgresRepository) SetCompleted(ctx context.Context, sno int64, completed bool) error {
	query := `UPDATE todo SET completed = $1 WHERE sno = $2`
	return r.execOne(ctx, query, completed, sno)
}

// execOne runs a statement expected to touch exactly one row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (*models.Todo, error) {
	var t models.Todo
	if err := s.Scan(&t.Sno, &t.Title, &t.Content, &t.DateCreated, &t.FromTime, &t.ToTime, &t.Completed, &t.UserID); err != nil {
		return nil, err
	}
	return &t, nil
}
