package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "full_name", "email", "mobile_number", "salt", "password_hash",
		"role", "otp_code", "otp_expires", "created_at", "updated_at",
	}).AddRow(u.ID, u.FullName, u.Email, u.MobileNumber, u.Salt, u.PasswordHash,
		u.Role, nil, nil, u.CreatedAt, u.UpdatedAt)
}

func sampleUser() *models.User {
	return &models.User{
		ID:           "u-1",
		FullName:     "Jane Smith",
		Email:        "jane@example.com",
		MobileNumber: "919876543210",
		Salt:         []byte("salt"),
		PasswordHash: []byte("hash"),
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(full_name,\s*email,\s*mobile_number,\s*salt,\s*password_hash,\s*role\)`

	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow("u-42", time.Now(), time.Now())
	mock.ExpectQuery(q).
		WithArgs("Jane Smith", "jane@example.com", "919876543210", []byte("salt"), []byte("hash"), models.RoleUser).
		WillReturnRows(rows)

	u := sampleUser()
	u.ID = ""
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-42" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), sampleUser())
	if !errors.Is(err, common.ErrorDuplicate) {
		t.Fatalf("want common.ErrorDuplicate, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), sampleUser())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()
	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("jane@example.com").
		WillReturnRows(userRows(u))

	got, err := repo.GetByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.FullName != "Jane Smith" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.OTPCode != "" || !got.OTPExpires.IsZero() {
		t.Fatalf("NULL otp columns not mapped to zero values: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByNameAndMobile(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()
	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+users\s+WHERE\s+full_name\s*=\s*\$1\s+AND\s+mobile_number\s*=\s*\$2`).
		WithArgs("Jane Smith", "919876543210").
		WillReturnRows(userRows(u))

	got, err := repo.GetByNameAndMobile(context.Background(), "Jane Smith", "919876543210")
	if err != nil {
		t.Fatalf("GetByNameAndMobile error: %v", err)
	}
	if got.MobileNumber != "919876543210" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestLockByID_UsesForUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()
	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE`).
		WithArgs("u-1").
		WillReturnRows(userRows(u))

	if _, err := repo.LockByID(context.Background(), "u-1"); err != nil {
		t.Fatalf("LockByID error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSetOTP_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(10 * time.Minute)
	mock.ExpectExec(`UPDATE\s+users\s+SET\s+otp_code\s*=\s*\$2`).
		WithArgs("u-1", "123456", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetOTP(context.Background(), "u-1", "123456", expires); err != nil {
		t.Fatalf("SetOTP error: %v", err)
	}
}

func TestSetOTP_MissingUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+otp_code\s*=\s*\$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetOTP(context.Background(), "ghost", "123456", time.Now())
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestClearOTP(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+otp_code\s*=\s*NULL`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ClearOTP(context.Background(), "u-1"); err != nil {
		t.Fatalf("ClearOTP error: %v", err)
	}
}

func TestUpdatePassword_ClearsOTP(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+salt\s*=\s*\$2,\s*password_hash\s*=\s*\$3,\s*otp_code\s*=\s*NULL`).
		WithArgs("u-1", []byte("newsalt"), []byte("newhash")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), "u-1", []byte("newsalt"), []byte("newhash")); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
