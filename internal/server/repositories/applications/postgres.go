package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/dbx"
	"github.com/dmitrijs2005/jobhub/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements application storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, app *models.Application) (*models.Application, error) {

	query :=
		`INSERT INTO applications (user_id, job_id, resume_key, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, applied_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		app.UserID, app.JobID, app.ResumeKey, app.Status).
		Scan(&app.ID, &app.AppliedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on (user_id, job_id)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return app, nil
}

func (r *PostgresRepository) GetByUserAndJob(ctx context.Context, userID, jobID string) (*models.Application, error) {
	query :=
		`SELECT id, user_id, job_id, applied_at, resume_key, status FROM applications
		 WHERE user_id = $1 AND job_id = $2
		 `

	app := &models.Application{}
	err := r.db.QueryRowContext(ctx, query, userID, jobID).
		Scan(&app.ID, &app.UserID, &app.JobID, &app.AppliedAt, &app.ResumeKey, &app.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return app, nil
}

func (r *PostgresRepository) UpdateResume(ctx context.Context, id, resumeKey string) error {
	query := `UPDATE applications SET resume_key = $2 WHERE id = $1`
	return r.exec(ctx, query, id, resumeKey)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM applications WHERE id = $1`
	return r.exec(ctx, query, id)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID, status string) ([]*models.AppliedJob, error) {

	query :=
		`SELECT a.id, a.user_id, a.job_id, a.applied_at, a.resume_key, a.status,
		        j.id, j.title, j.experience, j.location, j.type, j.summary, j.posted_by, j.created_at, j.updated_at
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.user_id = $1 AND ($2 = '' OR a.status = $2)
		 ORDER BY a.applied_at, a.id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to select applications: %w", err)
	}
	defer rows.Close()

	var result []*models.AppliedJob
	for rows.Next() {
		app := &models.Application{}
		job := &models.Job{}
		var postedBy sql.NullString
		if err := rows.Scan(
			&app.ID, &app.UserID, &app.JobID, &app.AppliedAt, &app.ResumeKey, &app.Status,
			&job.ID, &job.Title, &job.Experience, &job.Location, &job.Type, &job.Summary,
			&postedBy, &job.CreatedAt, &job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if postedBy.Valid {
			job.PostedBy = postedBy.String
		}
		result = append(result, &models.AppliedJob{Application: app, Job: job})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByJob(ctx context.Context, jobID string) ([]string, error) {
	query := `DELETE FROM applications WHERE job_id = $1 RETURNING resume_key`

	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
