// internal/adapters/in/http/handlers/auth_bootstrap_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
	authuc "github.com/palukuba/proofchain-schools/internal/application/usecase/auth"
)

// AuthBootstrapHandler serves POST /api/auth/bootstrap: creates the
// school profile right after Firebase sign-up. Runs behind the
// token-only middleware since the profile does not exist yet.
type AuthBootstrapHandler struct {
	svc *authuc.BootstrapService
}

func NewAuthBootstrapHandler(svc *authuc.BootstrapService) http.Handler {
	return &AuthBootstrapHandler{svc: svc}
}

func (h *AuthBootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	uid := middleware.UID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var profile authuc.SignUpProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	sc, err := h.svc.Bootstrap(r.Context(), uid, middleware.Email(r), &profile)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}
