package models

import (
	"time"
)

// PasswordResetToken is one entry in the reset-token ledger. The ledger
// holds at most one live entry per email: issuing a new token supersedes
// any earlier one for the same address.
type PasswordResetToken struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// IsValid reports whether the entry can still redeem a password reset:
// never used and not yet past its expiry. A used entry stays invalid
// forever, even while unexpired.
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// IsExpired reports whether the entry is past its expiry, regardless of
// whether it was ever used.
func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// ForgotPasswordRequest defines the structure for requesting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the structure for resetting a password with a
// signed envelope obtained from the reset email.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}
