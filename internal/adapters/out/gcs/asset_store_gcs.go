// internal/adapters/out/gcs/asset_store_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// DefaultBucket is used when no bucket is configured.
const DefaultBucket = "proofchain_schools_diploma_assets"

// AssetStoreGCS stages diploma assets (uploaded certificate images and
// rendered templates) in Google Cloud Storage before they are pinned to
// content-addressed storage.
type AssetStoreGCS struct {
	Client          *storage.Client
	Bucket          string
	SignedURLExpiry time.Duration
}

// NewAssetStoreGCS creates a storage adapter with the provided client.
// If bucket is empty, it falls back to DefaultBucket.
func NewAssetStoreGCS(client *storage.Client, bucket string) *AssetStoreGCS {
	b := strings.TrimSpace(bucket)
	if b == "" {
		b = DefaultBucket
	}
	return &AssetStoreGCS{
		Client:          client,
		Bucket:          b,
		SignedURLExpiry: 15 * time.Minute,
	}
}

// Put writes asset bytes under schoolID/name and returns the object path.
func (s *AssetStoreGCS) Put(ctx context.Context, schoolID, name string, data []byte, contentType string) (string, error) {
	if s.Client == nil {
		return "", errors.New("AssetStoreGCS: nil storage client")
	}
	schoolID = strings.TrimSpace(schoolID)
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if schoolID == "" || name == "" {
		return "", fmt.Errorf("invalid object path: schoolID=%q, name=%q", schoolID, name)
	}

	objectPath := schoolID + "/" + name
	w := s.Client.Bucket(s.Bucket).Object(objectPath).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return objectPath, nil
}

// Get reads the full object back. The issuance flow re-reads staged
// assets right before pinning so the pinned bytes match what the school
// reviewed.
func (s *AssetStoreGCS) Get(ctx context.Context, objectPath string) ([]byte, error) {
	if s.Client == nil {
		return nil, errors.New("AssetStoreGCS: nil storage client")
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if obj == "" {
		return nil, fmt.Errorf("invalid objectPath: %q", objectPath)
	}

	r, err := s.Client.Bucket(s.Bucket).Object(obj).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// SignedURL returns a time-limited download URL for previewing a staged
// asset in the admin console.
func (s *AssetStoreGCS) SignedURL(objectPath string) (string, error) {
	if s.Client == nil {
		return "", errors.New("AssetStoreGCS: nil storage client")
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if obj == "" {
		return "", fmt.Errorf("invalid objectPath: %q", objectPath)
	}

	expiry := s.SignedURLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return s.Client.Bucket(s.Bucket).SignedURL(obj, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	})
}

// Delete removes a staged asset. Missing objects are treated as success
// (idempotent delete).
func (s *AssetStoreGCS) Delete(ctx context.Context, objectPath string) error {
	if s.Client == nil {
		return errors.New("AssetStoreGCS: nil storage client")
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if obj == "" {
		return fmt.Errorf("invalid objectPath: %q", objectPath)
	}

	err := s.Client.Bucket(s.Bucket).Object(obj).Delete(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return err
	}
	return nil
}
