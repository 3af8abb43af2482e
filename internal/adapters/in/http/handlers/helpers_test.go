// internal/adapters/in/http/handlers/helpers_test.go
package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	issuancedom "github.com/palukuba/proofchain-schools/internal/domain/issuance"
	kycdom "github.com/palukuba/proofchain-schools/internal/domain/kyc"
	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"
)

func statusFor(err error) int {
	rec := httptest.NewRecorder()
	writeDomainErr(rec, err)
	return rec.Code
}

func TestWriteDomainErr_StatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest,
		statusFor(&issuancedom.ValidationError{Reason: "no recipients selected"}))
	assert.Equal(t, http.StatusConflict,
		statusFor(&issuancedom.PreconditionError{Reason: "insufficient balance"}))
	assert.Equal(t, http.StatusConflict, statusFor(issuancedom.ErrMintInFlight))
	assert.Equal(t, http.StatusConflict, statusFor(kycdom.ErrAlreadyPending))
	assert.Equal(t, http.StatusNotFound, statusFor(schooldom.ErrNotFound))
	assert.Equal(t, http.StatusBadGateway, statusFor(&issuancedom.ExternalServiceError{
		Collaborator: issuancedom.CollaboratorWallet,
		Step:         "submit",
		Err:          errors.New("rpc rejected transaction"),
	}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestWriteDomainErr_WrappedErrors(t *testing.T) {
	wrapped := &issuancedom.ExternalServiceError{
		Collaborator: issuancedom.CollaboratorContent,
		Step:         "upload",
		Err:          errors.New("pin service 503"),
	}
	assert.Equal(t, http.StatusBadGateway, statusFor(wrapped))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, parseIntDefault("5", 1))
	assert.Equal(t, 1, parseIntDefault("", 1))
	assert.Equal(t, 1, parseIntDefault("abc", 1))
	assert.Equal(t, 1, parseIntDefault(" ", 1))
}
