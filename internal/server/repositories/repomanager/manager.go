package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gotodo/internal/dbx"
	"github.com/dmitrijs2005/gotodo/internal/server/repositories/todos"
	"github.com/dmitrijs2005/gotodo/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can
// pick either the pool or an open transaction per call.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Todos(db dbx.DBTX) todos.Repository
}
