// Package applications provides PostgreSQL-backed persistence for job
// applications, each owned by exactly one user.
package applications

import (
	"context"

	"github.com/dmitrijs2005/jobhub/internal/server/models"
)

// Repository is the persistence contract for applications.
//
// Insert returns common.ErrorDuplicate when an application already exists
// for the (user, job) pair; lookups return common.ErrorNotFound.
type Repository interface {
	Insert(ctx context.Context, app *models.Application) (*models.Application, error)
	GetByUserAndJob(ctx context.Context, userID, jobID string) (*models.Application, error)
	UpdateResume(ctx context.Context, id, resumeKey string) error
	Delete(ctx context.Context, id string) error

	// ListByUser returns the user's applications in insertion order with the
	// referenced jobs resolved. An empty status means no filter.
	ListByUser(ctx context.Context, userID, status string) ([]*models.AppliedJob, error)

	// DeleteByJob removes every application referencing the job across all
	// users and returns the resume keys of the removed applications so the
	// caller can clean up the blobs.
	DeleteByJob(ctx context.Context, jobID string) ([]string, error)
}
