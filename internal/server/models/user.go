// Package models defines server-side data models persisted in the database.
package models

import "time"

// Roles assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. The password is stored only as
// (Salt, PasswordHash) where PasswordHash = HMAC-SHA256(Salt, plaintext).
// OTPCode/OTPExpires are set only while a password reset is pending.
type User struct {
	ID           string
	FullName     string
	Email        string
	MobileNumber string
	Salt         []byte
	PasswordHash []byte
	Role         string
	OTPCode      string
	OTPExpires   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OTPPending reports whether the user has an active one-time code.
func (u *User) OTPPending() bool {
	return u.OTPCode != "" && !u.OTPExpires.IsZero()
}
