// internal/adapters/in/http/handlers/student_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
	usecase "github.com/palukuba/proofchain-schools/internal/application/usecase"
)

// StudentHandler serves the /api/students routes.
type StudentHandler struct {
	uc *usecase.StudentUsecase
}

func NewStudentHandler(uc *usecase.StudentUsecase) http.Handler {
	return &StudentHandler{uc: uc}
}

func (h *StudentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sc, ok := middleware.CurrentSchool(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/students":
		h.list(w, r, sc.UserID)
	case r.Method == http.MethodPost && r.URL.Path == "/api/students":
		h.create(w, r, sc.UserID)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/students/"):
		h.get(w, r, strings.TrimPrefix(r.URL.Path, "/api/students/"))
	default:
		notFound(w)
	}
}

// GET /api/students
func (h *StudentHandler) list(w http.ResponseWriter, r *http.Request, schoolID string) {
	students, err := h.uc.ListForSchool(r.Context(), schoolID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// POST /api/students
func (h *StudentHandler) create(w http.ResponseWriter, r *http.Request, schoolID string) {
	var in usecase.CreateStudentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	p, err := h.uc.Enroll(r.Context(), schoolID, in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GET /api/students/{id}
func (h *StudentHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
