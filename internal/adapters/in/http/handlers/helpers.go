// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	issuancedom "github.com/palukuba/proofchain-schools/internal/domain/issuance"
	kycdom "github.com/palukuba/proofchain-schools/internal/domain/kyc"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not_found")
}

// writeDomainErr maps the workflow error taxonomy onto HTTP statuses.
// Validation problems are the caller's fault, preconditions are state
// conflicts, collaborator failures are upstream errors.
func writeDomainErr(w http.ResponseWriter, err error) {
	var vErr *issuancedom.ValidationError
	var pErr *issuancedom.PreconditionError
	var xErr *issuancedom.ExternalServiceError

	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &pErr):
		writeError(w, http.StatusConflict, pErr.Error())
	case errors.Is(err, issuancedom.ErrMintInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, kycdom.ErrAlreadyPending):
		writeError(w, http.StatusConflict, err.Error())
	case isNotFoundErr(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &xErr):
		writeError(w, http.StatusBadGateway, xErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// isNotFoundErr matches the per-package sentinel not-found errors by
// message suffix so this helper does not need to import every domain.
func isNotFoundErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.HasSuffix(err.Error(), "not found")
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
