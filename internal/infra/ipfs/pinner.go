// internal/infra/ipfs/pinner.go
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// HTTPPinner talks to an IPFS pinning service over HTTP (Blockfrost-style
// /ipfs/add endpoint). Fire-and-forget beyond error handling: the
// workflow only needs the resulting content address back.
type HTTPPinner struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPPinner builds the pinning client.
func NewHTTPPinner(baseURL, apiKey string) *HTTPPinner {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	return &HTTPPinner{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// PinFile uploads raw bytes and returns their content address
// ("ipfs://<hash>").
func (p *HTTPPinner) PinFile(ctx context.Context, data []byte, name string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("file payload is empty")
	}
	if p.baseURL == "" {
		return "", fmt.Errorf("baseURL is empty; ipfs endpoint not configured")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/ipfs/add", &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if p.apiKey != "" {
		req.Header.Set("project_id", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload to ipfs: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[ipfs] pin FAILED status=%d body=%s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("pin failed: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var res struct {
		IPFSHash string `json:"ipfs_hash"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return "", fmt.Errorf("decode pin response: %w", err)
	}
	if res.IPFSHash == "" {
		return "", fmt.Errorf("pin response has empty ipfs_hash")
	}

	return "ipfs://" + res.IPFSHash, nil
}

// PinJSON marshals v and pins it as metadata.json.
func (p *HTTPPinner) PinJSON(ctx context.Context, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return p.PinFile(ctx, data, "metadata.json")
}
