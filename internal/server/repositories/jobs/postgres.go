package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/dbx"
	"github.com/dmitrijs2005/jobhub/internal/server/models"
)

// PostgresRepository implements job storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const jobColumns = `id, title, experience, location, type, summary, responsibilities, requirements, stack, posted_by, created_at, updated_at`

// string lists are stored as jsonb columns
func marshalList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

func scanJob(scan func(dest ...any) error) (*models.Job, error) {
	job := &models.Job{}
	var responsibilities, requirements, stack []byte
	var postedBy sql.NullString

	err := scan(&job.ID, &job.Title, &job.Experience, &job.Location, &job.Type,
		&job.Summary, &responsibilities, &requirements, &stack, &postedBy,
		&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, pair := range []struct {
		raw []byte
		dst *[]string
	}{
		{responsibilities, &job.Responsibilities},
		{requirements, &job.Requirements},
		{stack, &job.Stack},
	} {
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return nil, fmt.Errorf("list decode error: %w", err)
		}
	}

	if postedBy.Valid {
		job.PostedBy = postedBy.String
	}
	return job, nil
}

func (r *PostgresRepository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {

	responsibilities, err := marshalList(job.Responsibilities)
	if err != nil {
		return nil, err
	}
	requirements, err := marshalList(job.Requirements)
	if err != nil {
		return nil, err
	}
	stack, err := marshalList(job.Stack)
	if err != nil {
		return nil, err
	}

	var postedBy any
	if job.PostedBy != "" {
		postedBy = job.PostedBy
	}

	query :=
		`INSERT INTO jobs (title, experience, location, type, summary, responsibilities, requirements, stack, posted_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		job.Title, job.Experience, job.Location, job.Type, job.Summary,
		responsibilities, requirements, stack, postedBy).
		Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return job, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanJob(row.Scan)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select jobs: %w", err)
	}
	defer rows.Close()

	var result []*models.Job
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update applies the allow-listed patch fields and returns the updated job.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch *models.JobPatch) (*models.Job, error) {

	set := []string{"updated_at = now()"}
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Experience != nil {
		add("experience", *patch.Experience)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.Summary != nil {
		add("summary", *patch.Summary)
	}
	for _, pair := range []struct {
		column string
		value  *[]string
	}{
		{"responsibilities", patch.Responsibilities},
		{"requirements", patch.Requirements},
		{"stack", patch.Stack},
	} {
		if pair.value == nil {
			continue
		}
		raw, err := marshalList(*pair.value)
		if err != nil {
			return nil, err
		}
		add(pair.column, raw)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE jobs SET %s WHERE id = $%d RETURNING `+jobColumns,
		strings.Join(set, ", "), len(args))

	row := r.db.QueryRowContext(ctx, query, args...)
	return scanJob(row.Scan)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM jobs WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
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
