// internal/adapters/in/http/handlers/policy_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
	usecase "github.com/palukuba/proofchain-schools/internal/application/usecase"
)

// PolicyHandler serves the /api/policy routes.
type PolicyHandler struct {
	uc *usecase.PolicyUsecase
}

func NewPolicyHandler(uc *usecase.PolicyUsecase) http.Handler {
	return &PolicyHandler{uc: uc}
}

func (h *PolicyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	sc, ok := middleware.CurrentSchool(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	switch {
	case r.URL.Path == "/api/policy":
		h.getOrCreate(w, r, sc.UserID)
	case strings.HasPrefix(r.URL.Path, "/api/policy/verify/"):
		h.verify(w, r, strings.TrimPrefix(r.URL.Path, "/api/policy/verify/"))
	default:
		notFound(w)
	}
}

// GET /api/policy
func (h *PolicyHandler) getOrCreate(w http.ResponseWriter, r *http.Request, schoolID string) {
	p, err := h.uc.GetOrCreate(r.Context(), schoolID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GET /api/policy/verify/{policyId}
func (h *PolicyHandler) verify(w http.ResponseWriter, r *http.Request, policyID string) {
	p, err := h.uc.Verify(r.Context(), policyID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
