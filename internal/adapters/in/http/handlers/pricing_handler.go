// internal/adapters/in/http/handlers/pricing_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
	usecase "github.com/palukuba/proofchain-schools/internal/application/usecase"
)

// PricingHandler serves /api/settings/pricing: the platform price config.
type PricingHandler struct {
	uc *usecase.PricingUsecase
}

func NewPricingHandler(uc *usecase.PricingUsecase) http.Handler {
	return &PricingHandler{uc: uc}
}

func (h *PricingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sc, ok := middleware.CurrentSchool(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.current(w, r)
	case http.MethodPut:
		h.update(w, r, sc.UserID)
	default:
		methodNotAllowed(w)
	}
}

// GET /api/settings/pricing
func (h *PricingHandler) current(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.uc.Current(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// PUT /api/settings/pricing
func (h *PricingHandler) update(w http.ResponseWriter, r *http.Request, updatedBy string) {
	var in usecase.UpdatePricingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	cfg, err := h.uc.Update(r.Context(), updatedBy, in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
