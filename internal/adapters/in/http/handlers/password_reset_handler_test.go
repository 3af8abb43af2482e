// internal/adapters/in/http/handlers/password_reset_handler_test.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	authuc "github.com/palukuba/proofchain-schools/internal/application/usecase/auth"
)

type stubLinks struct{ err error }

func (s stubLinks) PasswordResetLink(ctx context.Context, email string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "https://reset.example/token", nil
}

type stubResetMailer struct{ sent int }

func (s *stubResetMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	s.sent++
	return nil
}

func resetHandler(links stubLinks, mailer *stubResetMailer) http.Handler {
	return NewPasswordResetHandler(&authuc.PasswordResetService{
		Links:  links,
		Mailer: mailer,
	})
}

func TestPasswordResetHandler_Accepted(t *testing.T) {
	mailer := &stubResetMailer{}
	h := resetHandler(stubLinks{}, mailer)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset",
		strings.NewReader(`{"email":"admin@springfield.edu"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, mailer.sent)
}

func TestPasswordResetHandler_UnknownAddressStillAccepted(t *testing.T) {
	mailer := &stubResetMailer{}
	h := resetHandler(stubLinks{err: errors.New("user not found")}, mailer)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset",
		strings.NewReader(`{"email":"nobody@springfield.edu"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// same response as a hit: the endpoint must not reveal registrations
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 0, mailer.sent)
}

func TestPasswordResetHandler_BadBody(t *testing.T) {
	h := resetHandler(stubLinks{}, &stubResetMailer{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset",
		strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPasswordResetHandler_MethodNotAllowed(t *testing.T) {
	h := resetHandler(stubLinks{}, &stubResetMailer{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/password-reset", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
