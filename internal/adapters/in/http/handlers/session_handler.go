// internal/adapters/in/http/handlers/session_handler.go
package handlers

import (
	"net/http"

	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
)

// SessionHandler serves GET /api/session: the current school profile, or
// 401 when the request carries no usable session. The frontend uses this
// as its auth gate; an unauthenticated verdict redirects to login.
type SessionHandler struct{}

func NewSessionHandler() http.Handler {
	return &SessionHandler{}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	sc, ok := middleware.CurrentSchool(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}
