// This file implements ApplicationService: the apply / update-resume /
// withdraw lifecycle of a user's job applications, including the attached
// resume blobs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/dbx"
	"github.com/dmitrijs2005/jobhub/internal/logging"
	"github.com/dmitrijs2005/jobhub/internal/server/blob"
	"github.com/dmitrijs2005/jobhub/internal/server/models"
	"github.com/dmitrijs2005/jobhub/internal/server/repositories/repomanager"
)

// ApplicationService manages the lifecycle of job applications. Record
// mutations run in a transaction that locks the owning user row, so
// concurrent mutations of one user's applications are serialized. Blob
// operations are best-effort relative to the record mutation: no rollback
// spans both stores.
type ApplicationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blob.Store
	logger      logging.Logger
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, l logging.Logger) *ApplicationService {
	return &ApplicationService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      l.With("module", "applications"),
	}
}

// StoreResume validates and stores an uploaded resume ahead of an apply or
// update call, returning the storage key. Only document formats are
// accepted.
func (s *ApplicationService) StoreResume(ctx context.Context, userID, filename, contentType string, body io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf", ".doc", ".docx":
	default:
		return "", common.ErrorValidation
	}

	key := blob.NewResumeKey(userID, ext)
	if err := s.blobs.Put(ctx, key, contentType, body); err != nil {
		return "", err
	}
	return key, nil
}

// Apply records a new application with the already-stored resume. When an
// application for this (user, job) pair exists, the just-uploaded resume is
// orphaned, so it is deleted before reporting common.ErrorAlreadyApplied.
func (s *ApplicationService) Apply(ctx context.Context, userID, jobID, resumeKey string) error {
	if resumeKey == "" {
		return common.ErrorValidation
	}

	if _, err := s.repomanager.Jobs(s.db).GetByID(ctx, jobID); err != nil {
		s.deleteBlob(ctx, resumeKey)
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).LockByID(ctx, userID); err != nil {
			return err
		}
		_, err := s.repomanager.Applications(tx).Insert(ctx, &models.Application{
			UserID:    userID,
			JobID:     jobID,
			ResumeKey: resumeKey,
			Status:    models.ApplicationStatusApplied,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			s.deleteBlob(ctx, resumeKey)
			return common.ErrorAlreadyApplied
		}
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error applying to job: %w", err)
	}
	return nil
}

// UpdateResume replaces the resume of an existing application. The
// superseded blob is deleted once the record points at the new one. When no
// application exists the just-uploaded blob is deleted again and
// common.ErrorApplicationNotFound is returned.
func (s *ApplicationService) UpdateResume(ctx context.Context, userID, jobID, newResumeKey string) error {
	if newResumeKey == "" {
		return common.ErrorValidation
	}

	var oldKey string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).LockByID(ctx, userID); err != nil {
			return err
		}
		app, err := s.repomanager.Applications(tx).GetByUserAndJob(ctx, userID, jobID)
		if err != nil {
			return err
		}
		oldKey = app.ResumeKey
		return s.repomanager.Applications(tx).UpdateResume(ctx, app.ID, newResumeKey)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.deleteBlob(ctx, newResumeKey)
			return common.ErrorApplicationNotFound
		}
		return fmt.Errorf("error updating resume: %w", err)
	}

	if oldKey != newResumeKey {
		s.deleteBlob(ctx, oldKey)
	}
	return nil
}

// Withdraw removes the application and its resume blob. Withdrawing an
// already-withdrawn pair reports common.ErrorApplicationNotFound.
func (s *ApplicationService) Withdraw(ctx context.Context, userID, jobID string) error {
	var resumeKey string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).LockByID(ctx, userID); err != nil {
			return err
		}
		app, err := s.repomanager.Applications(tx).GetByUserAndJob(ctx, userID, jobID)
		if err != nil {
			return err
		}
		resumeKey = app.ResumeKey
		return s.repomanager.Applications(tx).Delete(ctx, app.ID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorApplicationNotFound
		}
		return fmt.Errorf("error withdrawing application: %w", err)
	}

	s.deleteBlob(ctx, resumeKey)
	return nil
}

// ListApplied returns the user's applications in insertion order, jobs
// resolved. An empty status means no filter.
func (s *ApplicationService) ListApplied(ctx context.Context, userID, status string) ([]*models.AppliedJob, error) {
	result, err := s.repomanager.Applications(s.db).ListByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("error listing applied jobs: %w", err)
	}
	return result, nil
}

// DownloadResume returns the resume key and its content for the user's
// application to the given job.
func (s *ApplicationService) DownloadResume(ctx context.Context, userID, jobID string) (string, io.ReadCloser, error) {
	app, err := s.repomanager.Applications(s.db).GetByUserAndJob(ctx, userID, jobID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorApplicationNotFound
		}
		return "", nil, common.ErrorInternal
	}

	body, err := s.blobs.Get(ctx, app.ResumeKey)
	if err != nil {
		return "", nil, err
	}
	return app.ResumeKey, body, nil
}

func (s *ApplicationService) deleteBlob(ctx context.Context, key string) {
	deleteBlobQuietly(ctx, s.blobs, s.logger, key)
}

// deleteBlobQuietly removes a blob best-effort. Cleanup failures are logged
// and never fail the surrounding operation.
func deleteBlobQuietly(ctx context.Context, store blob.Store, logger logging.Logger, key string) {
	if key == "" {
		return
	}
	if err := store.Delete(ctx, key); err != nil && !errors.Is(err, common.ErrorNotFound) {
		logger.Warn(ctx, "failed to delete resume blob", "key", key, "error", err.Error())
	}
}
