// Package jobs provides PostgreSQL-backed persistence for job postings.
package jobs

import (
	"context"

	"github.com/dmitrijs2005/jobhub/internal/server/models"
)

// Repository is the persistence contract for job postings.
//
// Update applies only the non-nil fields of the patch; lookups and updates
// of missing jobs return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context) ([]*models.Job, error)
	Update(ctx context.Context, id string, patch *models.JobPatch) (*models.Job, error)
	Delete(ctx context.Context, id string) error
}
