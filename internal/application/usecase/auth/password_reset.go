// internal/application/usecase/auth/password_reset.go
package auth

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// ResetLinkGenerator mints a one-time password reset link for an email
// address. Satisfied by the Firebase auth client.
type ResetLinkGenerator interface {
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

// ResetMailSender delivers the reset link.
type ResetMailSender interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

// PasswordResetService generates and mails password reset links.
type PasswordResetService struct {
	Links  ResetLinkGenerator
	Mailer ResetMailSender
}

// Request generates a reset link for email and mails it. Unknown
// addresses are reported as success so the endpoint cannot be used to
// probe which emails are registered; the miss is only logged.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("auth: invalid email")
	}

	link, err := s.Links.PasswordResetLink(ctx, email)
	if err != nil {
		log.Printf("[auth] reset link generation failed email=%s err=%v", email, err)
		return nil
	}

	if err := s.Mailer.SendPasswordReset(ctx, email, link); err != nil {
		return fmt.Errorf("auth: send reset mail: %w", err)
	}
	return nil
}
