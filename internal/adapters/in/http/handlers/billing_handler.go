// internal/adapters/in/http/handlers/billing_handler.go
package handlers

import (
	"net/http"

	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
	usecase "github.com/palukuba/proofchain-schools/internal/application/usecase"
)

// BillingHandler serves the /api/billing routes: the ledger view and the
// fee quote.
type BillingHandler struct {
	uc *usecase.BillingUsecase
}

func NewBillingHandler(uc *usecase.BillingUsecase) http.Handler {
	return &BillingHandler{uc: uc}
}

func (h *BillingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	sc, ok := middleware.CurrentSchool(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	switch r.URL.Path {
	case "/api/billing":
		h.ledger(w, r, sc.UserID)
	case "/api/billing/quote":
		h.quote(w, r, sc.UserID)
	default:
		notFound(w)
	}
}

// GET /api/billing
func (h *BillingHandler) ledger(w http.ResponseWriter, r *http.Request, schoolID string) {
	view, err := h.uc.Ledger(r.Context(), schoolID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GET /api/billing/quote?batchSize=N
func (h *BillingHandler) quote(w http.ResponseWriter, r *http.Request, schoolID string) {
	batchSize := parseIntDefault(r.URL.Query().Get("batchSize"), 0)
	if batchSize <= 0 {
		writeError(w, http.StatusBadRequest, "batchSize must be a positive integer")
		return
	}

	quote, err := h.uc.Quote(r.Context(), schoolID, batchSize)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
