package infra

// imagenes.go — disk-backed object store for reference artwork and payment
// receipts. Files land under basePath/{bucket}/{key} and are served back via
// the /imagenes static route, so the returned URL is directly usable by
// clients.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type ImagenStore struct {
	basePath string
	baseURL  string
}

// NewImagenStore prepares the storage root. baseURL is the public prefix the
// router serves basePath under (e.g. https://host/imagenes).
func NewImagenStore(basePath, baseURL string) (*ImagenStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("imagenes: create storage dir: %w", err)
	}
	return &ImagenStore{basePath: basePath, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload writes the bytes under a fresh key inside bucket and returns the
// public URL. The extension of the original filename is preserved.
func (s *ImagenStore) Upload(bucket, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.basePath, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("imagenes: create bucket dir: %w", err)
	}

	key := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	if err := os.WriteFile(filepath.Join(dir, key), data, 0644); err != nil {
		return "", fmt.Errorf("imagenes: write file: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, bucket, key), nil
}

// Delete removes the object a previously returned URL points at. Deleting an
// unknown URL is a no-op.
func (s *ImagenStore) Delete(url string) error {
	rel := strings.TrimPrefix(url, s.baseURL+"/")
	if rel == url || rel == "" {
		return nil // not one of ours
	}
	// Reject path escapes; keys are always {bucket}/{uuid.ext}.
	rel = filepath.Clean(rel)
	if strings.Contains(rel, "..") {
		return fmt.Errorf("imagenes: invalid url %q", url)
	}

	err := os.Remove(filepath.Join(s.basePath, rel))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// BasePath exposes the storage root for the static file route.
func (s *ImagenStore) BasePath() string { return s.basePath }
