// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
)

// RouterDeps collects the handler set and middlewares injected from the
// DI container. Handlers are pre-built http.Handlers; the router only
// decides which middleware chain each one sits behind.
type RouterDeps struct {
	// Auth is the full gate: verified token plus existing school profile.
	Auth *middleware.AuthMiddleware
	// TokenOnly verifies the token but tolerates a missing profile. The
	// bootstrap endpoint runs behind it.
	TokenOnly *middleware.AuthMiddleware

	Session       http.Handler
	AuthBootstrap http.Handler
	PasswordReset http.Handler
	Student       http.Handler
	Diploma       http.Handler
	Billing       http.Handler
	Pricing       http.Handler
	Policy        http.Handler
	KYC           http.Handler
	Issuance      http.Handler
}

// NewRouter sets up HTTP routing for all endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on, unauthenticated)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	guarded := func(h http.Handler) http.Handler {
		if deps.Auth == nil || h == nil {
			return h
		}
		return deps.Auth.Handler(h)
	}
	tokenOnly := func(h http.Handler) http.Handler {
		if deps.TokenOnly == nil || h == nil {
			return h
		}
		return deps.TokenOnly.Handler(h)
	}

	// Unauthenticated
	if deps.PasswordReset != nil {
		mux.Handle("/api/auth/password-reset", deps.PasswordReset)
	}

	// Token-only (profile may not exist yet)
	if deps.AuthBootstrap != nil {
		mux.Handle("/api/auth/bootstrap", tokenOnly(deps.AuthBootstrap))
	}
	if deps.Session != nil {
		mux.Handle("/api/session", tokenOnly(deps.Session))
	}

	// Fully guarded
	if deps.Student != nil {
		mux.Handle("/api/students", guarded(deps.Student))
		mux.Handle("/api/students/", guarded(deps.Student))
	}
	if deps.Diploma != nil {
		mux.Handle("/api/diplomas", guarded(deps.Diploma))
		mux.Handle("/api/diplomas/", guarded(deps.Diploma))
	}
	if deps.Billing != nil {
		mux.Handle("/api/billing", guarded(deps.Billing))
		mux.Handle("/api/billing/", guarded(deps.Billing))
	}
	if deps.Pricing != nil {
		mux.Handle("/api/settings/pricing", guarded(deps.Pricing))
	}
	if deps.Policy != nil {
		mux.Handle("/api/policy", guarded(deps.Policy))
		mux.Handle("/api/policy/", guarded(deps.Policy))
	}
	if deps.KYC != nil {
		mux.Handle("/api/kyc", guarded(deps.KYC))
	}
	if deps.Issuance != nil {
		mux.Handle("/api/issuance/", guarded(deps.Issuance))
	}

	return mux
}
