package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/todoapp/gobackend/internal/auth"
	"github.com/todoapp/gobackend/internal/constants"
	"github.com/todoapp/gobackend/internal/models"
	"github.com/todoapp/gobackend/internal/repository"
	"github.com/todoapp/gobackend/internal/service"
	"github.com/todoapp/gobackend/internal/utils"
)

// ResetTokenCodec wraps ledger secrets into signed envelopes and back.
type ResetTokenCodec interface {
	GenerateResetToken(email, secret string) (string, string, error)
	UnwrapResetToken(envelope string) (email, secret string, err error)
}

// PasswordResetHandler orchestrates the password reset flow: issuing
// reset tokens on request and consuming them to change a password.
type PasswordResetHandler struct {
	users  repository.UserRepository
	ledger repository.PasswordResetRepository
	codec  ResetTokenCodec
	email  service.EmailSender

	tokenTTL time.Duration
	baseURL  string
}

// NewPasswordResetHandler creates a new PasswordResetHandler.
func NewPasswordResetHandler(
	users repository.UserRepository,
	ledger repository.PasswordResetRepository,
	codec ResetTokenCodec,
	email service.EmailSender,
	tokenTTL time.Duration,
	baseURL string,
) *PasswordResetHandler {
	return &PasswordResetHandler{
		users:    users,
		ledger:   ledger,
		codec:    codec,
		email:    email,
		tokenTTL: tokenTTL,
		baseURL:  baseURL,
	}
}

// ForgotPassword initiates a password reset. The response is the same
// generic message whether or not the email is registered, so the
// endpoint cannot be used to probe for accounts. The one exception is a
// failure to deliver the email for a known account, which is reported
// as a server error rather than masked as success.
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same response as the success path.
			log.Info().Str("path", r.URL.Path).Msg("Password reset requested for unknown email")
			utils.Message(w, http.StatusOK, constants.MsgResetEmailSent)
			return
		}
		logRequestError(r, err, "Failed to look up user for password reset")
		utils.InternalServerError(w, err)
		return
	}

	secret, err := auth.GenerateResetSecret()
	if err != nil {
		logRequestError(r, err, "Failed to generate reset secret")
		utils.InternalServerError(w, err)
		return
	}

	envelope, _, err := h.codec.GenerateResetToken(user.Email, secret)
	if err != nil {
		logRequestError(r, err, "Failed to create reset envelope")
		utils.InternalServerError(w, err)
		return
	}

	// Superseding store: any earlier reset token for this email is
	// invalidated; only the newest link works.
	if err := h.ledger.Store(ctx, user.Email, secret, h.tokenTTL); err != nil {
		logRequestError(r, err, "Failed to store reset token")
		utils.InternalServerError(w, err)
		return
	}

	resetURL := service.BuildResetURL(h.baseURL, envelope)
	if err := h.email.SendPasswordResetEmail(user.Email, user.Name, resetURL); err != nil {
		logRequestError(r, err, "Failed to send password reset email")
		utils.ErrorFromAppError(w, utils.NewDeliveryFaultError(err))
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgResetEmailSent)
}

// ResetPassword consumes a reset token and sets a new password. The
// envelope must verify and its embedded secret must match a live ledger
// entry; both carry their own expiry and both must hold. Every token
// failure produces the same response, so a caller cannot tell a forged
// token from an expired or already-used one.
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	email, secret, err := h.codec.UnwrapResetToken(req.Token)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, constants.CodeTokenInvalid, constants.MsgInvalidResetToken, nil)
		return
	}

	valid, err := h.ledger.Validate(ctx, email, secret)
	if err != nil {
		logRequestError(r, err, "Failed to validate reset token")
		utils.InternalServerError(w, err)
		return
	}
	if !valid {
		utils.Error(w, http.StatusBadRequest, constants.CodeTokenInvalid, constants.MsgInvalidResetToken, nil)
		return
	}

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// The token was valid but the account is gone.
			utils.NotFound(w, "User not found")
			return
		}
		logRequestError(r, err, "Failed to load user for password reset")
		utils.InternalServerError(w, err)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		logRequestError(r, err, "Failed to hash new password")
		utils.InternalServerError(w, err)
		return
	}

	if err := h.users.ChangePassword(ctx, user.Email, passwordHash); err != nil {
		logRequestError(r, err, "Failed to change password")
		utils.InternalServerError(w, err)
		return
	}

	// The password is already changed; failing to consume the token
	// must not fail the request. The ledger's expiry still bounds any
	// window the token stays live.
	if err := h.ledger.MarkUsed(ctx, email, secret); err != nil {
		logRequestError(r, err, "Failed to mark reset token as used")
	}

	utils.LogAuth("password_reset", user.ID, user.Name, true, "")

	utils.Message(w, http.StatusOK, constants.MsgPasswordResetOK)
}
