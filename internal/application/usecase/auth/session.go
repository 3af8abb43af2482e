// internal/application/usecase/auth/session.go
package auth

import (
	"context"
	"errors"
	"time"

	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"
)

// ErrUnauthenticated is the session gate verdict when no usable session
// exists, including when session resolution timed out. An indeterminate
// session is treated as no session, never as an indefinite wait.
var ErrUnauthenticated = errors.New("auth: unauthenticated")

// SessionService resolves the current school session.
type SessionService struct {
	Schools SchoolRepository

	// Timeout bounds profile resolution. Zero means 5 seconds.
	Timeout time.Duration
}

// Resolve loads the school profile for an already-verified uid. The call
// is bounded: on timeout it returns ErrUnauthenticated instead of keeping
// the caller on a spinner.
func (s *SessionService) Resolve(ctx context.Context, uid string) (schooldom.Profile, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p, err := s.Schools.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, schooldom.ErrNotFound) {
			return schooldom.Profile{}, ErrUnauthenticated
		}
		return schooldom.Profile{}, err
	}
	return p, nil
}
