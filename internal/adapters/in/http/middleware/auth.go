// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	usecase "github.com/palukuba/proofchain-schools/internal/application/usecase"
	authuc "github.com/palukuba/proofchain-schools/internal/application/usecase/auth"
	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"
)

// FirebaseAuthClient is an alias so router deps can take
// *middleware.FirebaseAuthClient.
type FirebaseAuthClient = fbauth.Client

// context keys use a private struct type to avoid collisions (SA1029).
type ctxKey struct{ name string }

var (
	ctxKeySchool = ctxKey{name: "currentSchool"}
	ctxKeyUID    = ctxKey{name: "uid"}
	ctxKeyEmail  = ctxKey{name: "email"}
)

// AuthMiddleware verifies
//
//   - Authorization: Bearer <ID_TOKEN>
//
// and resolves the school profile for the token's uid. The middleware is
// the single writer of the session values in the request context; handlers
// only read them.
type AuthMiddleware struct {
	FirebaseAuth *FirebaseAuthClient
	Sessions     *authuc.SessionService

	// RequireProfile rejects requests whose uid has no school profile
	// yet. The bootstrap endpoint runs with this off.
	RequireProfile bool
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if m.FirebaseAuth == nil || m.Sessions == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUID, uid)
		ctx = usecase.WithUserID(ctx, uid)

		if emailRaw, ok := token.Claims["email"]; ok {
			if e, ok2 := emailRaw.(string); ok2 && strings.TrimSpace(e) != "" {
				ctx = context.WithValue(ctx, ctxKeyEmail, strings.TrimSpace(e))
			}
		}

		sc, err := m.Sessions.Resolve(ctx, uid)
		switch {
		case err == nil:
			ctx = ContextWithSchool(ctx, sc)
			ctx = usecase.WithSchool(ctx, sc)
		case errors.Is(err, authuc.ErrUnauthenticated):
			if m.RequireProfile {
				log.Printf("[AuthMiddleware] path=%s uid=%s has no school profile", r.URL.Path, uid)
				http.Error(w, "school profile not found", http.StatusForbidden)
				return
			}
		default:
			http.Error(w, "session resolution failed", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ContextWithSchool returns ctx carrying the resolved school profile.
// The auth middleware is the only production writer; handler tests use it
// to stand in for the gate.
func ContextWithSchool(ctx context.Context, p schooldom.Profile) context.Context {
	return context.WithValue(ctx, ctxKeySchool, p)
}

// CurrentSchool returns the resolved school profile for the request.
func CurrentSchool(r *http.Request) (schooldom.Profile, bool) {
	v := r.Context().Value(ctxKeySchool)
	p, ok := v.(schooldom.Profile)
	return p, ok
}

// UID returns the verified Firebase uid for the request.
func UID(r *http.Request) string {
	v := r.Context().Value(ctxKeyUID)
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// Email returns the token email claim, if present.
func Email(r *http.Request) string {
	v := r.Context().Value(ctxKeyEmail)
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
