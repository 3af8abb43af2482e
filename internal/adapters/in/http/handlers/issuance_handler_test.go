// internal/adapters/in/http/handlers/issuance_handler_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
	usecase "github.com/palukuba/proofchain-schools/internal/application/usecase"
	diplomadom "github.com/palukuba/proofchain-schools/internal/domain/diploma"
	pricingdom "github.com/palukuba/proofchain-schools/internal/domain/pricing"
	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"
	studentdom "github.com/palukuba/proofchain-schools/internal/domain/student"
	txdom "github.com/palukuba/proofchain-schools/internal/domain/transaction"
)

// ------------------------------------------------------
// Collaborator fakes behind the issuance usecase
// ------------------------------------------------------

type wfPinner struct{}

func (wfPinner) PinFile(ctx context.Context, data []byte, name string) (string, error) {
	return "ipfs://file-" + name, nil
}

func (wfPinner) PinJSON(ctx context.Context, v any) (string, error) {
	return "ipfs://json", nil
}

// wfMinter can be told to fail on a given call or to park inside Mint
// until released, to hold the batch in a minting state.
type wfMinter struct {
	mu         sync.Mutex
	calls      int
	failAtCall int

	started chan struct{} // closed on first Mint entry, when set
	release chan struct{} // Mint blocks on this, when set
}

func (m *wfMinter) Connected(ctx context.Context) error { return nil }

func (m *wfMinter) Balance(ctx context.Context) (uint64, error) { return 100_000_000, nil }

func (m *wfMinter) Mint(ctx context.Context, ownerWallet, name, symbol, uri string) (string, error) {
	m.mu.Lock()
	m.calls++
	n := m.calls
	started := m.started
	release := m.release
	m.mu.Unlock()

	if started != nil && n == 1 {
		close(started)
	}
	if release != nil {
		<-release
	}
	if m.failAtCall > 0 && n == m.failAtCall {
		return "", errors.New("rpc rejected transaction")
	}
	return fmt.Sprintf("sig-%d", n), nil
}

func (m *wfMinter) Confirmed(ctx context.Context, signature string) (bool, error) {
	return true, nil
}

type wfAssets struct{}

func (wfAssets) Get(ctx context.Context, objectPath string) ([]byte, error) {
	return []byte("png"), nil
}

func (wfAssets) Delete(ctx context.Context, objectPath string) error { return nil }

type wfStudents struct{}

func (wfStudents) ListByUserIDs(ctx context.Context, ids []string) ([]studentdom.Profile, error) {
	out := make([]studentdom.Profile, 0, len(ids))
	for _, id := range ids {
		out = append(out, studentdom.Profile{
			UserID:       id,
			SchoolID:     "school-1",
			FullName:     "Student " + id,
			Email:        id + "@example.edu",
			PublicWallet: strings.Repeat("A", 40),
		})
	}
	return out, nil
}

type wfDiplomas struct {
	mu      sync.Mutex
	records int
}

func (d *wfDiplomas) Create(ctx context.Context, r diplomadom.Record) (diplomadom.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records++
	r.ID = fmt.Sprintf("dip-%d", d.records)
	return r, nil
}

func (d *wfDiplomas) CountBySchoolID(ctx context.Context, schoolID string) (int, error) {
	return 0, nil
}

type wfSchools struct{}

func (wfSchools) AdjustBalance(ctx context.Context, userID string, delta float64) (schooldom.Profile, error) {
	return schooldom.Profile{UserID: userID}, nil
}

type wfTxs struct{}

func (wfTxs) Create(ctx context.Context, t txdom.Transaction) (txdom.Transaction, error) {
	return t, nil
}

type wfPrices struct{}

func (wfPrices) GetLatest(ctx context.Context) (pricingdom.PriceConfig, error) {
	return pricingdom.PriceConfig{}, pricingdom.ErrNotFound
}

// wfStager fakes the GCS staging adapter in front of the handler.
type wfStager struct {
	putErr error
}

func (s wfStager) Put(ctx context.Context, schoolID, name string, data []byte, contentType string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	return schoolID + "/" + name, nil
}

func (s wfStager) SignedURL(objectPath string) (string, error) {
	return "https://storage.example/signed/" + objectPath, nil
}

// ------------------------------------------------------
// Harness
// ------------------------------------------------------

type wfHarness struct {
	handler  http.Handler
	minter   *wfMinter
	diplomas *wfDiplomas
}

func newWFHarness(t *testing.T) *wfHarness {
	t.Helper()
	h := &wfHarness{
		minter:   &wfMinter{},
		diplomas: &wfDiplomas{},
	}
	uc := usecase.NewIssuanceUsecase(
		usecase.NewBatchStore(),
		wfPinner{},
		h.minter,
		wfAssets{},
		wfStudents{},
		h.diplomas,
		wfSchools{},
		wfTxs{},
		wfPrices{},
		nil,
	)
	uc.ConfirmAttempts = 1
	uc.ConfirmInterval = time.Millisecond
	h.handler = NewIssuanceHandler(uc, wfStager{})
	return h
}

func (h *wfHarness) do(method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	sc := schooldom.Profile{UserID: "school-1", Name: "Springfield Tech", Email: "admin@springfield.edu", Balance: 100}
	req = req.WithContext(middleware.ContextWithSchool(req.Context(), sc))
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *wfHarness) ready(t *testing.T, recipients int) {
	t.Helper()
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/issuance/batch", "").Code)
	for i := 1; i <= recipients; i++ {
		rec := h.do(http.MethodPost, "/api/issuance/batch/recipients",
			fmt.Sprintf(`{"studentId":"stu-%d"}`, i))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, http.StatusOK,
		h.do(http.MethodPost, "/api/issuance/batch/recipients/confirm", "").Code)
	require.Equal(t, http.StatusOK,
		h.do(http.MethodPost, "/api/issuance/batch/asset/template", `{"templateId":"tpl-1"}`).Code)
	require.Equal(t, http.StatusOK,
		h.do(http.MethodPost, "/api/issuance/batch/asset/confirm", "").Code)
}

// ------------------------------------------------------
// Tests
// ------------------------------------------------------

func TestIssuanceHandler_WorkflowHappyPath(t *testing.T) {
	h := newWFHarness(t)

	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/issuance/batch", "").Code)
	require.Equal(t, http.StatusOK,
		h.do(http.MethodPost, "/api/issuance/batch/recipients", `{"studentId":"stu-1"}`).Code)
	require.Equal(t, http.StatusOK,
		h.do(http.MethodPost, "/api/issuance/batch/recipients", `{"studentId":"stu-2"}`).Code)

	rec := h.do(http.MethodDelete, "/api/issuance/batch/recipients/stu-2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view usecase.BatchView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, []string{"stu-1"}, view.Recipients)

	require.Equal(t, http.StatusOK,
		h.do(http.MethodPost, "/api/issuance/batch/recipients/confirm", "").Code)
	require.Equal(t, http.StatusOK,
		h.do(http.MethodPost, "/api/issuance/batch/asset/template", `{"templateId":"tpl-1"}`).Code)
	require.Equal(t, http.StatusOK,
		h.do(http.MethodPost, "/api/issuance/batch/asset/confirm", "").Code)

	rec = h.do(http.MethodPost, "/api/issuance/batch/mint", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result usecase.MintResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "completed", string(result.State))
	assert.Len(t, result.Minted, 1)
	assert.Equal(t, 1, h.diplomas.records)
}

func TestIssuanceHandler_ConfirmWithoutRecipients(t *testing.T) {
	h := newWFHarness(t)
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/issuance/batch", "").Code)

	rec := h.do(http.MethodPost, "/api/issuance/batch/recipients/confirm", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIssuanceHandler_StatusWithoutWorkflow(t *testing.T) {
	h := newWFHarness(t)

	rec := h.do(http.MethodGet, "/api/issuance/batch", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIssuanceHandler_MintInFlightConflicts(t *testing.T) {
	h := newWFHarness(t)
	h.minter.started = make(chan struct{})
	h.minter.release = make(chan struct{})
	h.ready(t, 1)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- h.do(http.MethodPost, "/api/issuance/batch/mint", "")
	}()
	<-h.minter.started

	// a second mint and an abandon are both rejected while the first runs
	assert.Equal(t, http.StatusConflict,
		h.do(http.MethodPost, "/api/issuance/batch/mint", "").Code)
	assert.Equal(t, http.StatusConflict,
		h.do(http.MethodDelete, "/api/issuance/batch", "").Code)

	close(h.minter.release)
	rec := <-done
	assert.Equal(t, http.StatusOK, rec.Code)

	// once the run finished the workflow can be abandoned
	assert.Equal(t, http.StatusNoContent,
		h.do(http.MethodDelete, "/api/issuance/batch", "").Code)
}

func TestIssuanceHandler_PartialFailurePayload(t *testing.T) {
	h := newWFHarness(t)
	h.minter.failAtCall = 2
	h.ready(t, 2)

	rec := h.do(http.MethodPost, "/api/issuance/batch/mint", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body struct {
		Error  string            `json:"error"`
		State  string            `json:"state"`
		Minted []json.RawMessage `json:"minted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.Equal(t, "failed", body.State)
	// the recipient that went through before the failure is reported
	assert.Len(t, body.Minted, 1)
	assert.Equal(t, 1, h.diplomas.records)
}

func TestIssuanceHandler_ImageUploadAndPreview(t *testing.T) {
	h := newWFHarness(t)
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/issuance/batch", "").Code)
	require.Equal(t, http.StatusOK,
		h.do(http.MethodPost, "/api/issuance/batch/recipients", `{"studentId":"stu-1"}`).Code)
	require.Equal(t, http.StatusOK,
		h.do(http.MethodPost, "/api/issuance/batch/recipients/confirm", "").Code)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "diploma.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/issuance/batch/asset/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	sc := schooldom.Profile{UserID: "school-1", Name: "Springfield Tech", Email: "admin@springfield.edu"}
	req = req.WithContext(middleware.ContextWithSchool(req.Context(), sc))
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	prev := h.do(http.MethodGet, "/api/issuance/batch/asset/preview", "")
	require.Equal(t, http.StatusOK, prev.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(prev.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["url"], "https://storage.example/signed/school-1/uploads/"))
}

func TestIssuanceHandler_PreviewWithoutImage(t *testing.T) {
	h := newWFHarness(t)
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/issuance/batch", "").Code)

	rec := h.do(http.MethodGet, "/api/issuance/batch/asset/preview", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIssuanceHandler_Unauthenticated(t *testing.T) {
	h := newWFHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/api/issuance/batch", nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
