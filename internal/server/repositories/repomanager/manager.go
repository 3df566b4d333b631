// Package repomanager wires repositories to database handles. Services ask
// the manager for a repository bound to either the pooled *sql.DB or a
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/todoapp/userapi/internal/dbx"
	"github.com/todoapp/userapi/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
