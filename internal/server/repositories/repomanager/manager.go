// Package repomanager hands out repository implementations bound to a
// database handle or transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/jobhub/internal/dbx"
	"github.com/dmitrijs2005/jobhub/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobhub/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobhub/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to the provided DBTX, so the
// same repository code runs against a plain connection or inside a
// transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Jobs(db dbx.DBTX) jobs.Repository
	Applications(db dbx.DBTX) applications.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
