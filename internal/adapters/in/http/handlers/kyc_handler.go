// internal/adapters/in/http/handlers/kyc_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
	usecase "github.com/palukuba/proofchain-schools/internal/application/usecase"
)

// KYCHandler serves the /api/kyc routes.
type KYCHandler struct {
	uc *usecase.KYCUsecase
}

func NewKYCHandler(uc *usecase.KYCUsecase) http.Handler {
	return &KYCHandler{uc: uc}
}

func (h *KYCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sc, ok := middleware.CurrentSchool(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.latest(w, r, sc.UserID)
	case http.MethodPost:
		h.submit(w, r, sc.UserID)
	default:
		methodNotAllowed(w)
	}
}

// GET /api/kyc
func (h *KYCHandler) latest(w http.ResponseWriter, r *http.Request, schoolID string) {
	req, err := h.uc.Latest(r.Context(), schoolID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// POST /api/kyc
func (h *KYCHandler) submit(w http.ResponseWriter, r *http.Request, schoolID string) {
	var body struct {
		Documents []string `json:"documents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	req, err := h.uc.Submit(r.Context(), schoolID, body.Documents)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}
