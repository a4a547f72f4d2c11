// Package users provides the credential store: user records with unique
// email and mobile number, hashed credentials, and OTP state.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/server/models"
)

// Repository is the persistence contract for user records.
//
// Create returns common.ErrorDuplicate when the email or mobile number is
// already taken. Lookups return common.ErrorNotFound for missing users.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByMobile(ctx context.Context, mobileNumber string) (*models.User, error)
	GetByNameAndMobile(ctx context.Context, fullName, mobileNumber string) (*models.User, error)

	// LockByID loads the user row FOR UPDATE. Run inside a transaction, it
	// serializes mutations of one user's applications.
	LockByID(ctx context.Context, id string) (*models.User, error)

	SetOTP(ctx context.Context, id, code string, expires time.Time) error
	ClearOTP(ctx context.Context, id string) error

	// UpdatePassword replaces the credential with a fresh (salt, hash) pair
	// and clears any pending OTP state.
	UpdatePassword(ctx context.Context, id string, salt, hash []byte) error
}
