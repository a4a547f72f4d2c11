// Package services contains server-side business logic. This file implements
// UserService: registration, login (credential check + session token), and
// profile retrieval.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/server/auth"
	"github.com/dmitrijs2005/jobhub/internal/server/config"
	"github.com/dmitrijs2005/jobhub/internal/server/models"
	"github.com/dmitrijs2005/jobhub/internal/server/repositories/repomanager"
)

// RegisterRequest carries the fields of a registration form.
type RegisterRequest struct {
	FullName     string
	Email        string
	MobileNumber string
	Password     string
	Consent      bool
}

// UserService provides account-related operations:
//   - Register: create users with hashed credentials
//   - Login: verify credentials and mint a session token
//   - Profile: return the account with credential material scrubbed
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new user with a freshly salted HMAC-SHA256 credential.
// Duplicate email or mobile number yields common.ErrorDuplicate.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if req.FullName == "" || req.Email == "" || req.MobileNumber == "" || req.Password == "" {
		return nil, common.ErrorValidation
	}
	if !req.Consent {
		return nil, common.ErrorValidation
	}

	salt := auth.NewSalt()
	user := &models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		MobileNumber: normalizeMobile(req.MobileNumber),
		Salt:         salt,
		PasswordHash: auth.HashPassword(salt, req.Password),
		Role:         models.RoleUser,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the (email, password) pair and returns a signed session
// token. A missing user and a wrong password both yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !auth.CheckPassword(user.Salt, user.PasswordHash, password) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Profile returns the user together with the applied jobs, each resolved to
// its posting. Credential and OTP material never leaves the service.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, []*models.AppliedJob, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	applied, err := s.repomanager.Applications(s.db).ListByUser(ctx, userID, "")
	if err != nil {
		return nil, nil, fmt.Errorf("error listing applied jobs: %w", err)
	}

	user.Salt = nil
	user.PasswordHash = nil
	user.OTPCode = ""
	user.OTPExpires = time.Time{}

	return user, applied, nil
}

// normalizeMobile keeps only the digits of a mobile number, matching how
// numbers are stored.
func normalizeMobile(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
