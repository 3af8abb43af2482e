// internal/adapters/in/http/handlers/diploma_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
	usecase "github.com/palukuba/proofchain-schools/internal/application/usecase"
)

// DiplomaHandler serves the read-only /api/diplomas routes.
type DiplomaHandler struct {
	uc *usecase.DiplomaUsecase
}

func NewDiplomaHandler(uc *usecase.DiplomaUsecase) http.Handler {
	return &DiplomaHandler{uc: uc}
}

func (h *DiplomaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
	case r.URL.Path == "/api/diplomas":
		h.listForSchool(w, r, sc.UserID)
	case r.URL.Path == "/api/diplomas/count":
		h.count(w, r, sc.UserID)
	case strings.HasPrefix(r.URL.Path, "/api/diplomas/student/"):
		h.listForStudent(w, r, strings.TrimPrefix(r.URL.Path, "/api/diplomas/student/"))
	default:
		notFound(w)
	}
}

func (h *DiplomaHandler) listForSchool(w http.ResponseWriter, r *http.Request, schoolID string) {
	records, err := h.uc.ListForSchool(r.Context(), schoolID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *DiplomaHandler) listForStudent(w http.ResponseWriter, r *http.Request, studentID string) {
	records, err := h.uc.ListForStudent(r.Context(), studentID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *DiplomaHandler) count(w http.ResponseWriter, r *http.Request, schoolID string) {
	n, err := h.uc.CountForSchool(r.Context(), schoolID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}
