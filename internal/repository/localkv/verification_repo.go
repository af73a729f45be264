// Package localkv persists the verification record as a single JSON document
// on the local filesystem. It is the only durable state this service keeps.
package localkv

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"roomrequests/internal/domain"
)

type verificationRepository struct {
	path string
}

// NewVerificationRepository returns a domain.VerificationRepository backed by
// one JSON file at the given path.
func NewVerificationRepository(path string) domain.VerificationRepository {
	return &verificationRepository{path: path}
}

// Load reads the record. A missing or unparsable file reads as absent, never
// as an error.
func (r *verificationRepository) Load(ctx context.Context) (*domain.VerificationRecord, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var rec domain.VerificationRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		// Corrupt data is treated as absent.
		return nil, nil
	}
	return &rec, nil
}

// Save rewrites the entire record. There are no partial updates.
func (r *verificationRepository) Save(ctx context.Context, rec *domain.VerificationRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(r.path, raw, 0o600)
}
