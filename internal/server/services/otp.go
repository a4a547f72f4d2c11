// This file implements OTPService: the one-time-code lifecycle behind
// password recovery (request, verify, reset).
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/server/auth"
	"github.com/dmitrijs2005/jobhub/internal/server/config"
	"github.com/dmitrijs2005/jobhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobhub/internal/server/sms"
)

const otpCodeLength = 6

// OTPService drives the password-recovery flow: it generates one-time
// codes, dispatches them over SMS, validates them exactly once, and resets
// the credential.
type OTPService struct {
	db                  *sql.DB
	repomanager         repomanager.RepositoryManager
	sender              sms.Sender
	otpValidityDuration time.Duration
}

// NewOTPService constructs an OTPService using repositories, the SMS
// gateway, and server config.
func NewOTPService(db *sql.DB, m repomanager.RepositoryManager, sender sms.Sender, cfg *config.Config) *OTPService {
	return &OTPService{
		db:                  db,
		repomanager:         m,
		sender:              sender,
		otpValidityDuration: cfg.OTPValidityDuration,
	}
}

// RequestReset generates a fresh code for the user with this mobile number,
// stores it with its expiry, and dispatches it via SMS. A new request
// overwrites any previous code. If dispatch fails the stored code is
// cleared again, so a code the user never received cannot stay valid, and
// the gateway failure is returned to the caller.
func (s *OTPService) RequestReset(ctx context.Context, mobileNumber string) error {
	mobile := normalizeMobile(mobileNumber)
	if mobile == "" {
		return common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	code, err := common.MakeRandNumericCode(otpCodeLength)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.SetOTP(ctx, user.ID, code, time.Now().Add(s.otpValidityDuration)); err != nil {
		return common.ErrorInternal
	}

	message := fmt.Sprintf("Your OTP is %s. Valid for %d minutes.", code, int(s.otpValidityDuration.Minutes()))
	if err := s.sender.Send(ctx, user.MobileNumber, message); err != nil {
		_ = repo.ClearOTP(ctx, user.ID)
		return err
	}

	return nil
}

// VerifyOTP checks the code for the user identified by (fullName, mobile).
// On success the code is cleared so it cannot validate a second time. A
// wrong code and an expired one both yield common.ErrorOTPInvalid; the
// caller is not told which half failed.
func (s *OTPService) VerifyOTP(ctx context.Context, fullName, mobileNumber, code string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByNameAndMobile(ctx, fullName, normalizeMobile(mobileNumber))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	matches := user.OTPPending() &&
		subtle.ConstantTimeCompare([]byte(user.OTPCode), []byte(code)) == 1 &&
		time.Now().Before(user.OTPExpires)
	if !matches {
		return common.ErrorOTPInvalid
	}

	if err := repo.ClearOTP(ctx, user.ID); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// ResetPassword replaces the credential of the user identified by
// (fullName, mobile) with a freshly salted hash, exactly as at registration.
func (s *OTPService) ResetPassword(ctx context.Context, fullName, mobileNumber, newPassword string) error {
	if newPassword == "" {
		return common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByNameAndMobile(ctx, fullName, normalizeMobile(mobileNumber))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	salt := auth.NewSalt()
	if err := repo.UpdatePassword(ctx, user.ID, salt, auth.HashPassword(salt, newPassword)); err != nil {
		return common.ErrorInternal
	}
	return nil
}
