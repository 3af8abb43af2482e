// internal/application/usecase/auth/password_reset_test.go
package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLinks struct {
	link string
	err  error
}

func (s *stubLinks) PasswordResetLink(ctx context.Context, email string) (string, error) {
	return s.link, s.err
}

type stubResetMailer struct {
	sentTo   string
	sentLink string
	err      error
}

func (s *stubResetMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	s.sentTo = to
	s.sentLink = link
	return s.err
}

func TestPasswordReset_MailsLink(t *testing.T) {
	mailer := &stubResetMailer{}
	svc := &PasswordResetService{
		Links:  &stubLinks{link: "https://reset.example/token"},
		Mailer: mailer,
	}

	err := svc.Request(context.Background(), "admin@springfield.edu")
	require.NoError(t, err)
	assert.Equal(t, "admin@springfield.edu", mailer.sentTo)
	assert.Equal(t, "https://reset.example/token", mailer.sentLink)
}

func TestPasswordReset_UnknownAddressReportsSuccess(t *testing.T) {
	// link generation failing (unknown account) must not leak through the
	// response, or the endpoint becomes an email oracle
	mailer := &stubResetMailer{}
	svc := &PasswordResetService{
		Links:  &stubLinks{err: errors.New("user not found")},
		Mailer: mailer,
	}

	err := svc.Request(context.Background(), "nobody@springfield.edu")
	assert.NoError(t, err)
	assert.Empty(t, mailer.sentTo)
}

func TestPasswordReset_RejectsInvalidEmail(t *testing.T) {
	svc := &PasswordResetService{Links: &stubLinks{}, Mailer: &stubResetMailer{}}

	assert.Error(t, svc.Request(context.Background(), ""))
	assert.Error(t, svc.Request(context.Background(), "not-an-email"))
}

func TestPasswordReset_MailFailureSurfaces(t *testing.T) {
	svc := &PasswordResetService{
		Links:  &stubLinks{link: "https://reset.example/token"},
		Mailer: &stubResetMailer{err: errors.New("sendgrid 503")},
	}

	err := svc.Request(context.Background(), "admin@springfield.edu")
	assert.Error(t, err)
}
