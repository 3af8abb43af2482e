// internal/adapters/in/http/handlers/issuance_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
	usecase "github.com/palukuba/proofchain-schools/internal/application/usecase"
	issuancedom "github.com/palukuba/proofchain-schools/internal/domain/issuance"
	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"
)

// maxImageBytes caps uploaded certificate images at 10 MiB.
const maxImageBytes = 10 << 20

// assetStager stages an uploaded image before the workflow references it
// and serves time-limited preview links for staged objects.
type assetStager interface {
	Put(ctx context.Context, schoolID, name string, data []byte, contentType string) (string, error)
	SignedURL(objectPath string) (string, error)
}

// IssuanceHandler drives the issuance workflow over the
// /api/issuance/batch routes. All state lives server-side in the batch
// store; the frontend only posts events and polls the view.
type IssuanceHandler struct {
	uc     *usecase.IssuanceUsecase
	assets assetStager
}

func NewIssuanceHandler(uc *usecase.IssuanceUsecase, assets assetStager) http.Handler {
	return &IssuanceHandler{uc: uc, assets: assets}
}

func (h *IssuanceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sc, ok := middleware.CurrentSchool(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	schoolID := sc.UserID

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "/api/issuance/batch" && r.Method == http.MethodPost:
		writeJSON(w, http.StatusOK, h.uc.StartOrGet(schoolID))

	case path == "/api/issuance/batch" && r.Method == http.MethodGet:
		view, ok := h.uc.Status(schoolID)
		if !ok {
			writeError(w, http.StatusNotFound, "no active workflow")
			return
		}
		writeJSON(w, http.StatusOK, view)

	case path == "/api/issuance/batch" && r.Method == http.MethodDelete:
		if err := h.uc.Abandon(schoolID); err != nil {
			writeDomainErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case path == "/api/issuance/batch/recipients" && r.Method == http.MethodPost:
		h.addRecipient(w, r, schoolID)

	case strings.HasPrefix(path, "/api/issuance/batch/recipients/") && r.Method == http.MethodDelete:
		id := strings.TrimPrefix(path, "/api/issuance/batch/recipients/")
		view, err := h.uc.RemoveRecipient(schoolID, id)
		h.respond(w, view, err)

	case path == "/api/issuance/batch/recipients/confirm" && r.Method == http.MethodPost:
		view, err := h.uc.ConfirmRecipients(schoolID)
		h.respond(w, view, err)

	case path == "/api/issuance/batch/asset/template" && r.Method == http.MethodPost:
		h.chooseTemplate(w, r, schoolID)

	case path == "/api/issuance/batch/asset/image" && r.Method == http.MethodPost:
		h.uploadImage(w, r, schoolID)

	case path == "/api/issuance/batch/asset/preview" && r.Method == http.MethodGet:
		h.assetPreview(w, schoolID)

	case path == "/api/issuance/batch/asset/confirm" && r.Method == http.MethodPost:
		view, err := h.uc.ConfirmAsset(schoolID)
		h.respond(w, view, err)

	case path == "/api/issuance/batch/mint" && r.Method == http.MethodPost:
		h.mint(w, r, sc)

	case path == "/api/issuance/batch/cancel" && r.Method == http.MethodPost:
		view, err := h.uc.Cancel(schoolID)
		h.respond(w, view, err)

	case path == "/api/issuance/batch/reset" && r.Method == http.MethodPost:
		view, err := h.uc.Reset(schoolID)
		h.respond(w, view, err)

	default:
		notFound(w)
	}
}

// respond writes the updated view, or maps the workflow error.
func (h *IssuanceHandler) respond(w http.ResponseWriter, view usecase.BatchView, err error) {
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// POST /api/issuance/batch/recipients
func (h *IssuanceHandler) addRecipient(w http.ResponseWriter, r *http.Request, schoolID string) {
	var body struct {
		StudentID string `json:"studentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	view, err := h.uc.AddRecipient(schoolID, body.StudentID)
	h.respond(w, view, err)
}

// POST /api/issuance/batch/asset/template
func (h *IssuanceHandler) chooseTemplate(w http.ResponseWriter, r *http.Request, schoolID string) {
	var body struct {
		TemplateID string `json:"templateId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	view, err := h.uc.ChooseTemplate(schoolID, body.TemplateID)
	h.respond(w, view, err)
}

// POST /api/issuance/batch/asset/image (multipart, field "file")
//
// The payload is read and staged before the workflow sees it: an
// unreadable file surfaces here as a 400 and the asset selection stays
// untouched.
func (h *IssuanceHandler) uploadImage(w http.ResponseWriter, r *http.Request, schoolID string) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty file")
		return
	}
	if len(data) > maxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	name := fmt.Sprintf("uploads/%d-%s", time.Now().UTC().UnixNano(), header.Filename)
	ref, err := h.assets.Put(r.Context(), schoolID, name, data, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, http.StatusBadGateway, "staging upload failed")
		return
	}

	view, err := h.uc.ChooseImage(schoolID, ref)
	h.respond(w, view, err)
}

// GET /api/issuance/batch/asset/preview
func (h *IssuanceHandler) assetPreview(w http.ResponseWriter, schoolID string) {
	view, ok := h.uc.Status(schoolID)
	if !ok {
		writeError(w, http.StatusNotFound, "no active workflow")
		return
	}
	if view.Asset == nil || view.Asset.Kind != issuancedom.AssetImage {
		writeError(w, http.StatusNotFound, "no staged image")
		return
	}
	url, err := h.assets.SignedURL(view.Asset.ImageRef)
	if err != nil {
		writeError(w, http.StatusBadGateway, "preview link unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// POST /api/issuance/batch/mint
//
// Runs synchronously: the response carries the final outcome, including
// the partial minted list when the batch failed mid-way. Resubmission
// while a mint is running gets a 409.
func (h *IssuanceHandler) mint(w http.ResponseWriter, r *http.Request, sc schooldom.Profile) {
	result, err := h.uc.RunMint(r.Context(), sc)
	if err != nil {
		if len(result.Minted) > 0 {
			// partial failure: surface both the error and what went through
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":  err.Error(),
				"state":  result.State,
				"minted": result.Minted,
			})
			return
		}
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
