package todos

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gotodo/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	FindByID(ctx context.Context, sno int64) (*models.Todo, error)
	List(ctx context.Context, filter models.TodoFilter) ([]*models.Todo, error)
	ListByUserAndDate(ctx context.Context, userID int64, from, to time.Time) ([]*models.Todo, error)
	Update(ctx context.Context, sno int64, title, content string) error
	Delete(ctx context.Context, sno int64) error
	SetCompleted(ctx context.Context, sno int64, completed bool) error
}
