// Package service contains the application services that sit between the
// HTTP handlers and the repositories: outbound email delivery and the
// background cleanup of expired reset tokens.
package service

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/todoapp/gobackend/internal/config"
)

// EmailSender delivers password-reset mail. The reset flow treats a
// delivery failure as a hard error, so implementations must report one
// rather than swallow it.
type EmailSender interface {
	SendPasswordResetEmail(toEmail, toName, resetURL string) error
}

// BuildResetURL appends the reset token to the configured frontend URL.
func BuildResetURL(baseURL, token string) string {
	return fmt.Sprintf("%s?token=%s", baseURL, url.QueryEscape(token))
}

// SendGridEmailService sends mail through the SendGrid API.
type SendGridEmailService struct {
	apiKey      string
	fromAddress string
	fromName    string
}

// NewSendGridEmailService creates a SendGrid-backed sender.
func NewSendGridEmailService(cfg *config.EmailSettings) *SendGridEmailService {
	return &SendGridEmailService{
		apiKey:      cfg.SendGridAPIKey,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}
}

// SendPasswordResetEmail sends the reset link to the user.
func (s *SendGridEmailService) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail(toName, toEmail)
	subject := "Password Reset Request"
	plainTextContent := fmt.Sprintf("Please use the following link to reset your password: %s", resetURL)
	htmlContent := fmt.Sprintf("<strong>Please use the following link to reset your password:</strong> <a href=%q>Reset Password</a>", resetURL)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("password reset email rejected with status %d", response.StatusCode)
	}

	log.Info().Int("status_code", response.StatusCode).Msg("Password reset email sent")
	return nil
}

// LogEmailService writes the reset link to the log instead of sending
// mail. It is used in development when no SendGrid key is configured.
type LogEmailService struct{}

// NewLogEmailService creates a log-only sender.
func NewLogEmailService() *LogEmailService {
	return &LogEmailService{}
}

// SendPasswordResetEmail logs the reset link. It never fails.
func (s *LogEmailService) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	log.Info().
		Str("to", toEmail).
		Str("name", toName).
		Str("reset_url", resetURL).
		Msg("Password reset email (log-only delivery)")
	return nil
}

// NewEmailSender selects the delivery backend: SendGrid when an API key
// is configured, the log-only sender otherwise.
func NewEmailSender(cfg *config.EmailSettings) EmailSender {
	if cfg.SendGridAPIKey != "" {
		return NewSendGridEmailService(cfg)
	}
	log.Warn().Msg("No SendGrid API key configured, reset emails will only be logged")
	return NewLogEmailService()
}
