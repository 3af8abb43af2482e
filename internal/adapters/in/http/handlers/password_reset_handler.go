// internal/adapters/in/http/handlers/password_reset_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	authuc "github.com/palukuba/proofchain-schools/internal/application/usecase/auth"
)

// PasswordResetHandler serves POST /api/auth/password-reset. This is the
// one unauthenticated route besides /healthz: the caller has, by
// definition, no session.
type PasswordResetHandler struct {
	svc *authuc.PasswordResetService
}

func NewPasswordResetHandler(svc *authuc.PasswordResetService) http.Handler {
	return &PasswordResetHandler{svc: svc}
}

func (h *PasswordResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.svc.Request(r.Context(), body.Email); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}
