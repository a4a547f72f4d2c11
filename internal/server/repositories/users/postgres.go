package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/dbx"
	"github.com/dmitrijs2005/jobhub/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, full_name, email, mobile_number, salt, password_hash, role, otp_code, otp_expires, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var otpCode sql.NullString
	var otpExpires sql.NullTime

	err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.MobileNumber,
		&user.Salt, &user.PasswordHash, &user.Role, &otpCode, &otpExpires,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if otpCode.Valid {
		user.OTPCode = otpCode.String
	}
	if otpExpires.Valid {
		user.OTPExpires = otpExpires.Time
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (full_name, email, mobile_number, salt, password_hash, role)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.FullName, user.Email, user.MobileNumber, user.Salt, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation (email or mobile number already taken)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByMobile(ctx context.Context, mobileNumber string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE mobile_number = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, mobileNumber))
}

func (r *PostgresRepository) GetByNameAndMobile(ctx context.Context, fullName, mobileNumber string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE full_name = $1 AND mobile_number = $2`
	return scanUser(r.db.QueryRowContext(ctx, query, fullName, mobileNumber))
}

func (r *PostgresRepository) LockByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) SetOTP(ctx context.Context, id, code string, expires time.Time) error {
	query := `UPDATE users SET otp_code = $2, otp_expires = $3, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, code, expires)
}

func (r *PostgresRepository) ClearOTP(ctx context.Context, id string) error {
	query := `UPDATE users SET otp_code = NULL, otp_expires = NULL, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, salt, hash []byte) error {
	query := `UPDATE users SET salt = $2, password_hash = $3, otp_code = NULL, otp_expires = NULL, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, salt, hash)
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
