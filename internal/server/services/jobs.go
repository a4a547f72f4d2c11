// This file implements JobService: admin CRUD over job postings, including
// the cascade that removes applications when a posting is deleted.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/dbx"
	"github.com/dmitrijs2005/jobhub/internal/logging"
	"github.com/dmitrijs2005/jobhub/internal/server/blob"
	"github.com/dmitrijs2005/jobhub/internal/server/models"
	"github.com/dmitrijs2005/jobhub/internal/server/repositories/repomanager"
)

// JobService provides CRUD over job postings.
type JobService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blob.Store
	logger      logging.Logger
}

// NewJobService constructs a JobService.
func NewJobService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, l logging.Logger) *JobService {
	return &JobService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      l.With("module", "jobs"),
	}
}

// Create stores a new posting. All descriptive fields are required.
func (s *JobService) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	if job.Title == "" || job.Experience == "" || job.Location == "" ||
		job.Type == "" || job.Summary == "" {
		return nil, common.ErrorValidation
	}

	created, err := s.repomanager.Jobs(s.db).Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("error creating job: %w", err)
	}
	return created, nil
}

// Get returns a posting by id.
func (s *JobService) Get(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.repomanager.Jobs(s.db).GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return job, nil
}

// List returns all postings, newest first.
func (s *JobService) List(ctx context.Context) ([]*models.Job, error) {
	result, err := s.repomanager.Jobs(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}
	return result, nil
}

// Update applies an allow-listed patch to a posting.
func (s *JobService) Update(ctx context.Context, jobID string, patch *models.JobPatch) (*models.Job, error) {
	if patch == nil || patch.Empty() {
		return nil, common.ErrorValidation
	}

	job, err := s.repomanager.Jobs(s.db).Update(ctx, jobID, patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating job: %w", err)
	}
	return job, nil
}

// Delete removes a posting and cascades: every application referencing it,
// across all users, is removed in the same transaction. The cascaded
// applications' resume blobs would otherwise leak in object storage, so
// they are deleted best-effort after the transaction commits.
func (s *JobService) Delete(ctx context.Context, jobID string) error {
	var resumeKeys []string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		keys, err := s.repomanager.Applications(tx).DeleteByJob(ctx, jobID)
		if err != nil {
			return err
		}
		resumeKeys = keys
		return s.repomanager.Jobs(tx).Delete(ctx, jobID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting job: %w", err)
	}

	for _, key := range resumeKeys {
		deleteBlobQuietly(ctx, s.blobs, s.logger, key)
	}
	return nil
}
